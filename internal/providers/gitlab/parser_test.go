package gitlab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/providers/gitlab"
)

func TestParseSource_Compact(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		namespace string
		repo      string
		ref       string
		subPath   string
	}{
		{
			name:      "namespace and repo only",
			source:    "gitlab://group/repo",
			namespace: "group",
			repo:      "repo",
			ref:       "HEAD",
		},
		{
			name:      "nested namespace",
			source:    "gitlab://group/sub/repo",
			namespace: "group/sub",
			repo:      "repo",
			ref:       "HEAD",
		},
		{
			name:      "with ref",
			source:    "gitlab://group/repo@v1.2.3",
			namespace: "group",
			repo:      "repo",
			ref:       "v1.2.3",
		},
		{
			name:      "ref containing a slash",
			source:    "gitlab://group/sub/repo@release/2025.10",
			namespace: "group/sub",
			repo:      "repo",
			ref:       "release/2025.10",
		},
		{
			name:      "with subpath",
			source:    "gitlab://group/repo//services/auth",
			namespace: "group",
			repo:      "repo",
			ref:       "HEAD",
			subPath:   "services/auth",
		},
		{
			name:      "ref and subpath",
			source:    "gitlab://group/sub/repo@main//services/auth",
			namespace: "group/sub",
			repo:      "repo",
			ref:       "main",
			subPath:   "services/auth",
		},
		{
			name:      "file subpath",
			source:    "gitlab://group/repo@v1.2.3//CHANGELOG.md",
			namespace: "group",
			repo:      "repo",
			ref:       "v1.2.3",
			subPath:   "CHANGELOG.md",
		},
		{
			name:      "empty ref falls back to HEAD",
			source:    "gitlab://group/repo@//docs",
			namespace: "group",
			repo:      "repo",
			ref:       "HEAD",
			subPath:   "docs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := gitlab.ParseSource(tt.source)

			require.NoError(t, err)
			assert.Equal(t, tt.namespace, req.Namespace)
			assert.Equal(t, tt.repo, req.Repo)
			assert.Equal(t, tt.ref, req.Ref)
			assert.Equal(t, tt.subPath, req.SubPath)
			assert.Equal(t, domain.KindAuto, req.Kind)
			assert.Empty(t, req.APIBase)
		})
	}
}

func TestParseSource_WebURL(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		namespace string
		repo      string
		ref       string
		subPath   string
		apiBase   string
	}{
		{
			name:      "repo root page",
			source:    "gitlab://https://gitlab.example.com/group/repo",
			namespace: "group",
			repo:      "repo",
			ref:       "HEAD",
			apiBase:   "https://gitlab.example.com/api/v4",
		},
		{
			name:      "tree URL with subpath",
			source:    "gitlab://https://gitlab.example.com/group/repo/-/tree/main/services/auth",
			namespace: "group",
			repo:      "repo",
			ref:       "main",
			subPath:   "services/auth",
			apiBase:   "https://gitlab.example.com/api/v4",
		},
		{
			name:      "blob URL",
			source:    "gitlab://https://gitlab.example.com/group/sub/repo/-/blob/v2/README.md",
			namespace: "group/sub",
			repo:      "repo",
			ref:       "v2",
			subPath:   "README.md",
			apiBase:   "https://gitlab.example.com/api/v4",
		},
		{
			name:      "tree URL without subpath",
			source:    "gitlab://https://gitlab.example.com/group/repo/-/tree/develop",
			namespace: "group",
			repo:      "repo",
			ref:       "develop",
			apiBase:   "https://gitlab.example.com/api/v4",
		},
		{
			name:      "http scheme and port preserved",
			source:    "gitlab://http://gitlab.local:8080/group/repo",
			namespace: "group",
			repo:      "repo",
			ref:       "HEAD",
			apiBase:   "http://gitlab.local:8080/api/v4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := gitlab.ParseSource(tt.source)

			require.NoError(t, err)
			assert.Equal(t, tt.namespace, req.Namespace)
			assert.Equal(t, tt.repo, req.Repo)
			assert.Equal(t, tt.ref, req.Ref)
			assert.Equal(t, tt.subPath, req.SubPath)
			assert.Equal(t, tt.apiBase, req.APIBase)
		})
	}
}

func TestParseSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"wrong scheme", "github://group/repo"},
		{"no scheme", "group/repo"},
		{"missing repo", "gitlab://justonesegment"},
		{"empty after scheme", "gitlab://"},
		{"web URL with single segment", "gitlab://https://gitlab.example.com/repo"},
		{"web URL with empty path", "gitlab://https://gitlab.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gitlab.ParseSource(tt.source)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}
