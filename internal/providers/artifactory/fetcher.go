// Package artifactory implements the artifact-repository backend: a single
// opaque download-by-coordinates call. The repository's query language is
// out of scope; a source is either a full download URL or a
// repo/path/artifact coordinate joined to the configured base URL.
package artifactory

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/artifetch-go/internal/config"
	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/fetcher"
	"github.com/quantmind-br/artifetch-go/internal/utils"
)

// Fetcher downloads a single artifact into dest
type Fetcher struct {
	cfg    config.ArtifactoryConfig
	client *fetcher.Client
	logger *utils.Logger
}

// FetcherOptions contains options for creating a Fetcher
type FetcherOptions struct {
	Config config.ArtifactoryConfig
	Client *fetcher.Client
	Logger *utils.Logger
}

// NewFetcher creates a new artifact fetcher
func NewFetcher(opts FetcherOptions) *Fetcher {
	return &Fetcher{
		cfg:    opts.Config,
		client: opts.Client,
		logger: opts.Logger,
	}
}

// Name returns the provider key
func (f *Fetcher) Name() domain.Provider {
	return domain.ProviderArtifactory
}

// Fetch downloads the artifact and returns dest/<basename>
func (f *Fetcher) Fetch(ctx context.Context, source, dest string, _ domain.FetchOptions) (string, error) {
	downloadURL, err := f.resolveURL(source)
	if err != nil {
		return "", err
	}

	if err := utils.EnsureDir(dest); err != nil {
		return "", err
	}

	u, err := url.Parse(downloadURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid artifact URL '%s'", domain.ErrParse, downloadURL)
	}
	name := path.Base(strings.TrimRight(u.Path, "/"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: cannot derive artifact name from '%s'", domain.ErrParse, source)
	}

	target := filepath.Join(dest, name)
	if err := f.client.DownloadFile(ctx, downloadURL, f.headers(), target); err != nil {
		return "", err
	}

	if f.logger != nil {
		f.logger.Debug().Str("path", target).Msg("Fetched artifact")
	}
	return target, nil
}

// resolveURL accepts a full URL verbatim; bare repo/path coordinates need
// a configured base URL to resolve against.
func (f *Fetcher) resolveURL(source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return source, nil
	}

	base := strings.TrimRight(f.cfg.BaseURL, "/")
	if base == "" {
		return "", fmt.Errorf("%w: artifact coordinates '%s' require artifactory.base_url to be configured",
			domain.ErrParse, source)
	}
	return base + "/" + strings.TrimLeft(source, "/"), nil
}

func (f *Fetcher) headers() map[string]string {
	if f.cfg.Token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + f.cfg.Token}
}
