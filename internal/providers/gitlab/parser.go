package gitlab

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/quantmind-br/artifetch-go/internal/domain"
)

// Scheme is the URI scheme the content backend accepts
const Scheme = "gitlab://"

// ParseSource parses a gitlab:// source string into a FetchRequest.
//
// Compact grammar:
//
//	gitlab://<namespace>/<repo>
//	gitlab://<namespace>/<repo>@<ref>
//	gitlab://<namespace>/<repo>//<subpath>
//	gitlab://<namespace>/<repo>@<ref>//<subpath>
//
// The namespace may contain slashes (nested groups); the repo is the last
// segment before @ or //.
//
// Web-URL convenience: when the part after the scheme is an http(s) URL to
// a GitLab web page, the request is derived from its path and the API base
// from its scheme and host:
//
//	gitlab://https://gitlab.example.com/group/repo
//	gitlab://https://gitlab.example.com/group/repo/-/tree/<ref>/<subpath>
//	gitlab://https://gitlab.example.com/group/repo/-/blob/<ref>/<subpath>
func ParseSource(source string) (*domain.FetchRequest, error) {
	if !strings.HasPrefix(source, Scheme) {
		return nil, fmt.Errorf("%w: unsupported scheme in '%s' (expected %s...)", domain.ErrParse, source, Scheme)
	}
	rest := source[len(Scheme):]

	if strings.HasPrefix(rest, "http://") || strings.HasPrefix(rest, "https://") {
		return parseWebURL(rest)
	}

	return parseCompact(rest)
}

// parseCompact splits the subpath off on the first "//", then the ref on
// the first "@", and takes the last remaining segment as the repo.
func parseCompact(rest string) (*domain.FetchRequest, error) {
	head, subPath, _ := strings.Cut(rest, "//")

	head, ref, _ := strings.Cut(head, "@")
	if ref == "" {
		ref = domain.DefaultRef
	}

	parts := splitSegments(head)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected 'namespace/repo' in '%s'", domain.ErrParse, rest)
	}
	repo := parts[len(parts)-1]
	namespace := strings.Join(parts[:len(parts)-1], "/")

	return &domain.FetchRequest{
		Namespace: namespace,
		Repo:      repo,
		Ref:       ref,
		SubPath:   strings.Trim(subPath, "/"),
		Kind:      domain.KindAuto,
	}, nil
}

// parseWebURL parses a GitLab web URL. The "-" path segment is the web
// UI's marker for extras; the two segments after it are the mode (tree or
// blob, not otherwise distinguished) and the ref, with anything further
// joined as the subpath.
func parseWebURL(raw string) (*domain.FetchRequest, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid GitLab URL '%s': %v", domain.ErrParse, raw, err)
	}

	apiBase := fmt.Sprintf("%s://%s/api/v4", u.Scheme, u.Host)
	parts := splitSegments(u.Path)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: invalid GitLab URL '%s'", domain.ErrParse, raw)
	}

	ref := domain.DefaultRef
	subPath := ""

	nsRepo := parts
	if idx := indexOf(parts, "-"); idx >= 0 {
		nsRepo = parts[:idx]
		if len(nsRepo) == 0 {
			return nil, fmt.Errorf("%w: invalid GitLab URL '%s'", domain.ErrParse, raw)
		}
		after := parts[idx+1:]
		if len(after) >= 2 {
			// after = [tree|blob, ref, subpath...]
			if after[1] != "" {
				ref = after[1]
			}
			if len(after) > 2 {
				subPath = strings.Join(after[2:], "/")
			}
		}
	}

	if len(nsRepo) < 2 {
		return nil, fmt.Errorf("%w: invalid GitLab URL '%s'", domain.ErrParse, raw)
	}
	repo := nsRepo[len(nsRepo)-1]
	namespace := strings.Join(nsRepo[:len(nsRepo)-1], "/")

	return &domain.FetchRequest{
		Namespace: namespace,
		Repo:      repo,
		Ref:       ref,
		SubPath:   subPath,
		Kind:      domain.KindAuto,
		APIBase:   apiBase,
	}, nil
}

func splitSegments(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func indexOf(parts []string, want string) int {
	for i, p := range parts {
		if p == want {
			return i
		}
	}
	return -1
}
