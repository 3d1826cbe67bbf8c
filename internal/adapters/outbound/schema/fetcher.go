package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FetchTimeout bounds a remote schema fetch.
const FetchTimeout = 10 * time.Second

// Fetcher implements domain.SchemaFetcher for filesystem paths and http(s) URLs.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a bounded HTTP timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: FetchTimeout}}
}

// NewFetcherWithClient creates a Fetcher using client for remote sources.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", source, err)
	}
	req.Header.Set("Accept", "application/schema+json, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", source, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}
