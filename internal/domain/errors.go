package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors
var (
	// ErrParse indicates a malformed source string
	ErrParse = errors.New("invalid source")

	// ErrDetection indicates no detection rule matched the source string
	ErrDetection = errors.New("could not detect provider")

	// ErrUnsupportedProvider indicates an unknown provider key
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrDestinationExists indicates the clone target is non-empty
	ErrDestinationExists = errors.New("destination already exists and is not empty")

	// ErrToolNotFound indicates the external git binary is missing
	ErrToolNotFound = errors.New("git not found on PATH; install git or set GIT_BINARY")
)

// FetchError is the single error type the fetch entry point returns.
// It wraps whatever the selected backend failed with.
type FetchError struct {
	Provider Provider
	Source   string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("fetch via %s failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(provider Provider, source string, err error) *FetchError {
	return &FetchError{Provider: provider, Source: source, Err: err}
}

// CloneError represents a non-zero exit from the external clone tool.
// Source is pre-sanitized: userinfo is redacted before it gets here.
type CloneError struct {
	Source string
	Err    error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("git clone failed for source '%s': %v", e.Source, e.Err)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// HTTPError represents a non-2xx response from a remote endpoint
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// IsRetryableStatus reports whether the status code is worth retrying
func (e *HTTPError) IsRetryableStatus() bool {
	switch e.StatusCode {
	case 429, 502, 503, 504:
		return true
	}
	return false
}

// ExtractionError represents a corrupt or unreadable archive
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried: transient HTTP
// statuses and transport-level network errors. Cancellation is never
// retried.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryableStatus()
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
