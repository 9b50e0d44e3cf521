// Package git implements the repository clone backend. It normalizes
// heterogeneous clone sources (full URLs, SCP addresses, bare shorthand)
// into a clone spec and materializes a shallow working copy through the
// external git executable.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/quantmind-br/artifetch-go/internal/config"
	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/utils"
)

var (
	// SCP-style remote address: user@host:path
	scpRe = regexp.MustCompile(`^[A-Za-z0-9._-]+@[^/:]+:`)

	// userinfo in http(s) URLs, redacted from error messages
	userinfoRe = regexp.MustCompile(`(https?://)([^@/]+)@`)
)

var unsupportedSchemes = []string{"ftp://", "file://", "s3://", "data://"}

// Fetcher clones a repository (shallow, no tags) into dest/<repo>
type Fetcher struct {
	cfg    config.GitConfig
	runner Runner
	logger *utils.Logger
}

// FetcherOptions contains options for creating a Fetcher
type FetcherOptions struct {
	Config config.GitConfig
	Runner Runner
	Logger *utils.Logger
}

// NewFetcher creates a new clone fetcher
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Runner == nil {
		opts.Runner = NewExecRunner()
	}
	return &Fetcher{
		cfg:    opts.Config,
		runner: opts.Runner,
		logger: opts.Logger,
	}
}

// Name returns the provider key
func (f *Fetcher) Name() domain.Provider {
	return domain.ProviderGit
}

// Fetch validates and normalizes source, checks the target directory, and
// runs a shallow clone. The returned path is dest/<repo>.
func (f *Fetcher) Fetch(ctx context.Context, source, dest string, opts domain.FetchOptions) (string, error) {
	if err := utils.EnsureDir(dest); err != nil {
		return "", err
	}

	spec, err := f.BuildCloneSpec(source, dest, opts.Branch)
	if err != nil {
		return "", err
	}

	// Fail fast on a non-empty target; the clone is never attempted
	if info, err := os.Stat(spec.TargetDir); err == nil && info.IsDir() {
		empty, err := utils.IsEmptyDir(spec.TargetDir)
		if err != nil {
			return "", err
		}
		if !empty {
			return "", fmt.Errorf("%w: '%s'", domain.ErrDestinationExists, spec.TargetDir)
		}
	}

	bin := f.cfg.Binary
	if bin == "" {
		bin = "git"
	}
	if strings.ContainsRune(bin, os.PathSeparator) {
		if _, err := os.Stat(bin); err != nil {
			return "", domain.ErrToolNotFound
		}
	} else if _, err := f.runner.LookPath(bin); err != nil {
		return "", domain.ErrToolNotFound
	}

	args := []string{"clone", "--depth", "1", "--no-tags"}
	if spec.Branch != "" {
		args = append(args, "-b", spec.Branch)
	}
	args = append(args, spec.RepoURL, spec.TargetDir)

	if f.logger != nil {
		f.logger.Info().Str("url", SanitizeSource(spec.RepoURL)).Str("target", spec.TargetDir).Msg("Cloning repository")
	}

	if err := f.runner.Run(ctx, bin, args); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", domain.ErrToolNotFound
		}
		return "", &domain.CloneError{Source: SanitizeSource(source), Err: err}
	}

	return spec.TargetDir, nil
}

// BuildCloneSpec validates the source, normalizes it to a fully qualified
// repository URL, and computes the target directory under dest.
func (f *Fetcher) BuildCloneSpec(source, dest, branch string) (*domain.CloneSpec, error) {
	if err := validateSource(source); err != nil {
		return nil, err
	}

	repoURL := f.normalizeSource(source)

	repoName, err := repoNameFromURL(repoURL)
	if err != nil {
		return nil, err
	}

	return &domain.CloneSpec{
		RepoURL:   repoURL,
		Branch:    branch,
		TargetDir: filepath.Join(dest, repoName),
	}, nil
}

// validateSource accepts HTTP(S)/SSH URLs, SCP-style addresses, and bare
// shorthand like 'group/repo'. A branch must never ride along via '@'
// after the repository path; it is ambiguous with SCP syntax and has a
// dedicated parameter.
func validateSource(source string) error {
	for _, scheme := range unsupportedSchemes {
		if strings.HasPrefix(source, scheme) {
			return fmt.Errorf("%w: invalid URL scheme in '%s'", domain.ErrParse, source)
		}
	}

	isURL := strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "ssh://")
	isSCP := !isURL && scpRe.MatchString(source)
	isShorthand := !isURL && !isSCP && strings.Contains(source, "/")

	if !isURL && !isSCP && !isShorthand {
		return fmt.Errorf("%w: invalid git source format: '%s' "+
			"(expected a full URL, an SCP-style address, or shorthand like 'group/repo')",
			domain.ErrParse, source)
	}

	if containsStrayAt(source) {
		return fmt.Errorf("%w: detected '@' after the repository path in '%s'; "+
			"pass the branch via the branch parameter instead",
			domain.ErrParse, source)
	}

	return nil
}

// containsStrayAt detects an '@' used as a branch delimiter without
// flagging valid userinfo or the SCP user part.
func containsStrayAt(source string) bool {
	if strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "ssh://") {
		rest := source[strings.Index(source, "://")+3:]
		slash := strings.IndexByte(rest, '/')
		if slash == -1 {
			// no path component, any '@' belongs to the netloc
			return false
		}
		return strings.ContainsRune(rest[slash+1:], '@')
	}

	if scpRe.MatchString(source) {
		colon := strings.IndexByte(source, ':')
		return strings.ContainsRune(source[colon+1:], '@')
	}

	// shorthand: any '@' is stray
	return strings.ContainsRune(source, '@')
}

// normalizeSource passes full URLs and SCP addresses through unchanged and
// expands bare shorthand against the configured host, user, and protocol.
func (f *Fetcher) normalizeSource(source string) string {
	if strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "ssh://") ||
		scpRe.MatchString(source) {
		return source
	}

	if f.cfg.Proto == "http" || f.cfg.Proto == "https" {
		return fmt.Sprintf("%s://%s/%s.git", f.cfg.Proto, f.cfg.Host, source)
	}
	return fmt.Sprintf("%s@%s:%s.git", f.cfg.User, f.cfg.Host, source)
}

// repoNameFromURL derives the target directory name: the last path segment
// of the remote endpoint with any .git suffix stripped.
func repoNameFromURL(repoURL string) (string, error) {
	ep, err := transport.NewEndpoint(repoURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid git source '%s': %v", domain.ErrParse, SanitizeSource(repoURL), err)
	}

	name := path.Base(strings.TrimRight(strings.ReplaceAll(ep.Path, "\\", "/"), "/"))
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: cannot derive repository name from '%s'", domain.ErrParse, SanitizeSource(repoURL))
	}
	return name, nil
}

// SanitizeSource redacts userinfo in http(s) URLs so tokens never reach
// error messages or logs
func SanitizeSource(source string) string {
	return userinfoRe.ReplaceAllString(source, "${1}***@")
}
