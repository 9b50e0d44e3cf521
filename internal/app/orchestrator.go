// Package app wires configuration, provider detection, and the backend
// registry into the single fetch entry point.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/artifetch-go/internal/config"
	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/fetcher"
	"github.com/quantmind-br/artifetch-go/internal/providers/artifactory"
	gitprovider "github.com/quantmind-br/artifetch-go/internal/providers/git"
	"github.com/quantmind-br/artifetch-go/internal/providers/gitlab"
	"github.com/quantmind-br/artifetch-go/internal/utils"
)

// Options carries one fetch invocation
type Options struct {
	Source   string
	Dest     string // defaults to the current directory
	Provider string // explicit provider key; auto-detected when empty
	Branch   string // clone backend only
	Kind     string // content backend only: repo, dir, file, auto
}

// App holds the configured backend registry. The registry is a static
// mapping built once at startup; backends hold no per-request state.
type App struct {
	cfg      *config.Config
	logger   *utils.Logger
	fetchers map[domain.Provider]domain.Fetcher
}

// AppOptions contains options for creating an App
type AppOptions struct {
	Config   *config.Config
	Logger   *utils.Logger
	Progress bool
}

// New creates an App with all backends constructed from the configuration
func New(opts AppOptions) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	client := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:    cfg.HTTP.Timeout,
		MaxRetries: cfg.HTTP.MaxRetries,
		Logger:     logger.WithComponent("http"),
		Progress:   opts.Progress,
	})

	fetchers := map[domain.Provider]domain.Fetcher{
		domain.ProviderGitLab: gitlab.NewFetcher(gitlab.FetcherOptions{
			Config: cfg.GitLab,
			Client: client,
			Logger: logger.WithProvider(string(domain.ProviderGitLab)),
		}),
		domain.ProviderArtifactory: artifactory.NewFetcher(artifactory.FetcherOptions{
			Config: cfg.Artifactory,
			Client: client,
			Logger: logger.WithProvider(string(domain.ProviderArtifactory)),
		}),
		domain.ProviderGit: gitprovider.NewFetcher(gitprovider.FetcherOptions{
			Config: cfg.Git,
			Logger: logger.WithProvider(string(domain.ProviderGit)),
		}),
	}

	return &App{cfg: cfg, logger: logger, fetchers: fetchers}
}

// Fetch resolves the source through the right backend and returns the
// local path of the artifact. Every failure comes back as a
// *domain.FetchError wrapping the original error.
func (a *App) Fetch(ctx context.Context, opts Options) (string, error) {
	dest := opts.Dest
	if dest == "" {
		dest = "."
	}
	dest, err := filepath.Abs(utils.ExpandPath(dest))
	if err != nil {
		return "", domain.NewFetchError("", opts.Source, err)
	}

	provider, err := a.resolveProvider(opts)
	if err != nil {
		return "", domain.NewFetchError("", opts.Source, err)
	}

	kind, ok := domain.ParseKind(opts.Kind)
	if !ok {
		return "", domain.NewFetchError(provider, opts.Source,
			fmt.Errorf("%w: unknown kind '%s'", domain.ErrParse, opts.Kind))
	}

	backend, ok := a.fetchers[provider]
	if !ok {
		return "", domain.NewFetchError(provider, opts.Source,
			fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider))
	}

	result, err := backend.Fetch(ctx, opts.Source, dest, domain.FetchOptions{
		Branch: opts.Branch,
		Kind:   kind,
	})
	if err != nil {
		return "", domain.NewFetchError(provider, opts.Source, err)
	}

	a.logger.Info().
		Str("provider", string(provider)).
		Str("path", result).
		Msg("Fetch complete")

	return result, nil
}

func (a *App) resolveProvider(opts Options) (domain.Provider, error) {
	if opts.Provider != "" {
		provider, ok := domain.ParseProvider(opts.Provider)
		if !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, opts.Provider)
		}
		return provider, nil
	}
	return DetectProvider(opts.Source)
}

// Fetch is the library-level entry point: it loads configuration from the
// environment, builds an App, and runs a single fetch.
func Fetch(ctx context.Context, opts Options) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", domain.NewFetchError("", opts.Source, err)
	}
	return New(AppOptions{Config: cfg}).Fetch(ctx, opts)
}
