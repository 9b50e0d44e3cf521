package domain

import "strings"

// Kind describes what a fetch request resolves to
type Kind string

const (
	KindRepo Kind = "repo"
	KindDir  Kind = "dir"
	KindFile Kind = "file"
	KindAuto Kind = "auto"
)

// ParseKind converts a user-supplied kind string to a Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRepo, KindDir, KindFile, KindAuto:
		return Kind(s), true
	case "":
		return KindAuto, true
	default:
		return "", false
	}
}

// Provider identifies a fetch backend
type Provider string

const (
	ProviderArtifactory Provider = "artifactory"
	ProviderGitLab      Provider = "gitlab"
	ProviderGit         Provider = "git"
)

// ParseProvider converts a user-supplied provider key to a Provider
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderArtifactory, ProviderGitLab, ProviderGit:
		return Provider(s), true
	default:
		return "", false
	}
}

// ProviderKeys lists the accepted --provider values
func ProviderKeys() []string {
	return []string{
		string(ProviderGitLab),
		string(ProviderArtifactory),
		string(ProviderGit),
	}
}

// DefaultRef is the ref used when a source string does not name one
const DefaultRef = "HEAD"

// FetchRequest is a parsed repository-content request. It is built once per
// invocation and consumed by exactly one backend call.
type FetchRequest struct {
	Namespace string // may contain slashes (nested groups)
	Repo      string
	Ref       string // branch/tag/sha, DefaultRef when unspecified
	SubPath   string // empty for whole-repo requests
	Kind      Kind
	APIBase   string // per-request override, derived from web URLs
}

// ProjectPath returns the hosting API project identifier before URL encoding
func (r *FetchRequest) ProjectPath() string {
	return r.Namespace + "/" + r.Repo
}

// EffectiveKind resolves KindAuto using the file-extension heuristic:
// no subpath means the whole repo, a subpath whose last segment contains a
// dot means a single file, anything else is a directory.
func (r *FetchRequest) EffectiveKind() Kind {
	if r.Kind != KindAuto && r.Kind != "" {
		return r.Kind
	}
	if r.SubPath == "" {
		return KindRepo
	}
	if looksLikeFile(r.SubPath) {
		return KindFile
	}
	return KindDir
}

func looksLikeFile(path string) bool {
	last := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		last = path[i+1:]
	}
	return strings.Contains(last, ".")
}

// CloneSpec is a normalized clone invocation: a fully qualified repository
// URL, an optional branch, and the directory the working copy lands in.
type CloneSpec struct {
	RepoURL   string
	Branch    string
	TargetDir string
}
