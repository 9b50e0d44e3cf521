package app

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/providers/gitlab"
)

// artifactoryToken is the host marker for artifact-repository sources
const artifactoryToken = "artifactory"

// DetectProvider determines the backend from the source string. Rules are
// evaluated in order and the first match wins; an ambiguous source is an
// error, never a silent default.
func DetectProvider(source string) (domain.Provider, error) {
	lower := strings.ToLower(source)

	// Artifact-repository host marker wins over everything, including a
	// trailing .git
	if strings.Contains(lower, artifactoryToken) {
		return domain.ProviderArtifactory, nil
	}

	if strings.HasPrefix(lower, gitlab.Scheme) {
		return domain.ProviderGitLab, nil
	}

	if strings.HasSuffix(lower, ".git") ||
		strings.HasPrefix(lower, "git@") ||
		strings.HasPrefix(lower, "ssh://") {
		return domain.ProviderGit, nil
	}

	return "", fmt.Errorf("%w for '%s': pass --provider explicitly", domain.ErrDetection, source)
}
