package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/artifetch-go/internal/domain"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected domain.Provider
	}{
		// Artifactory host marker
		{"artifactory URL", "https://artifactory.example.com/repo/a.jar", domain.ProviderArtifactory},
		{"artifactory uppercase", "https://ARTIFACTORY.example.com/repo/a.jar", domain.ProviderArtifactory},
		// Precedence: the artifactory marker wins even over a .git suffix
		{"artifactory beats .git", "https://artifactory.example.com/mirrors/repo.git", domain.ProviderArtifactory},

		// GitLab content scheme
		{"gitlab compact", "gitlab://group/repo", domain.ProviderGitLab},
		{"gitlab web URL", "gitlab://https://gitlab.example.com/group/repo", domain.ProviderGitLab},

		// Git clone markers
		{".git suffix", "https://host.example.com/org/repo.git", domain.ProviderGit},
		{"git@ prefix", "git@host.example.com:org/repo.git", domain.ProviderGit},
		{"git@ prefix mixed case", "Git@host.example.com:org/repo.git", domain.ProviderGit},
		{"ssh scheme", "ssh://git@host.example.com/org/repo.git", domain.ProviderGit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := DetectProvider(tt.source)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, provider)
		})
	}
}

func TestDetectProvider_AmbiguousFails(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		// Could be clone shorthand, but nothing marks it as such
		{"bare shorthand", "group/repo"},
		{"https without markers", "https://host.example.com/org/repo"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectProvider(tt.source)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDetection)
		})
	}
}
