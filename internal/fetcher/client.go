// Package fetcher provides the HTTP transport shared by the content
// backends: bounded timeouts, retry of transient failures, and streamed
// downloads that never hold a whole archive in memory.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/artifetch-go/internal/domain"
	"github.com/quantmind-br/artifetch-go/internal/utils"
)

// Client wraps net/http with a fixed per-request timeout and retry
type Client struct {
	httpClient *http.Client
	retrier    *Retrier
	logger     *utils.Logger
	progress   bool
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int
	Logger     *utils.Logger
	Progress   bool // render a progress bar on downloads
}

// NewClient creates a new Client
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		retrier: NewRetrier(RetrierOptions{
			MaxRetries:      opts.MaxRetries,
			InitialInterval: 1 * time.Second,
			MaxInterval:     30 * time.Second,
			Multiplier:      2.0,
		}),
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Get performs a GET request and returns the response. Non-2xx responses
// are drained, closed, and reported as *domain.HTTPError. The caller owns
// the body on success.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.logger != nil {
		c.logger.WithURL(url).Debug().Msg("GET")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		resp.Body.Close()
		return nil, &domain.HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// DownloadFile streams a GET response into target, creating or truncating
// it. Transient failures restart the whole download.
func (c *Client) DownloadFile(ctx context.Context, url string, headers map[string]string, target string) error {
	return c.retrier.Retry(ctx, func() error {
		resp, err := c.Get(ctx, url, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}

		if err := c.copyBody(out, resp); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	})
}

// DownloadTemp streams a GET response into a fresh temp file and returns
// its path together with a cleanup func. Cleanup always removes the file;
// callers defer it so no temp file survives any exit path.
func (c *Client) DownloadTemp(ctx context.Context, url string, headers map[string]string, pattern string) (string, func(), error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	cleanup := func() { os.Remove(tmpPath) }

	if err := c.DownloadFile(ctx, url, headers, tmpPath); err != nil {
		cleanup()
		return "", nil, err
	}

	return tmpPath, cleanup, nil
}

func (c *Client) copyBody(out io.Writer, resp *http.Response) error {
	if c.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "Downloading")
		defer bar.Finish() //nolint:errcheck
		out = io.MultiWriter(out, bar)
	}

	// 128 KiB chunks keep memory flat on large archives
	buf := make([]byte, 128*1024)
	_, err := io.CopyBuffer(out, resp.Body, buf)
	return err
}
