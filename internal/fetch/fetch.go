// Package fetch retrieves remote stylesheets named by @import rules.
package fetch

import (
	"context"
	"fmt"

	"bennypowers.dev/asimonim/load"
	"bennypowers.dev/cssvls/internal/uriutil"
)

// Fetcher retrieves the text of a remote stylesheet
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches stylesheets over HTTP(S), bounded by a size limit.
// Deadlines come from the caller's context.
type HTTPFetcher struct {
	loader load.Fetcher
}

// NewHTTPFetcher creates a fetcher
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{loader: load.NewHTTPFetcher(load.DefaultMaxSize)}
}

// Fetch downloads url. Only absolute http and https URLs are accepted.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if !uriutil.IsRemote(url) {
		return "", fmt.Errorf("not an http(s) URL: %q", url)
	}

	content, err := f.loader.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return string(content), nil
}
