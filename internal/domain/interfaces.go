package domain

import "context"

// FetchOptions carries per-invocation options shared by all backends
type FetchOptions struct {
	Branch string // clone backend only
	Kind   Kind   // content backend only; KindAuto infers from the subpath
}

// Fetcher is the common interface all backends implement. Fetch resolves
// source into a local artifact under dest and returns its path.
type Fetcher interface {
	Fetch(ctx context.Context, source, dest string, opts FetchOptions) (string, error)
	Name() Provider
}
