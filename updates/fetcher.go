package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"healthform/config"
)

// manifestTimeout bounds the manifest request. The manifest is a small JSON
// document, so this is much shorter than the artifact timeout.
const manifestTimeout = 12 * time.Second

// Fetcher retrieves and parses the release manifest.
type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string
}

// NewFetcher creates a Fetcher for the manifest URL in cfg.
func NewFetcher(cfg config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: manifestTimeout,
		},
		url:       cfg.ManifestURL,
		userAgent: cfg.UserAgent(),
	}
}

// Fetch performs a single GET for the manifest and decodes it. Any
// transport error, non-200 status, or decode error is surfaced as one
// wrapped error; partial manifests are never returned.
func (f *Fetcher) Fetch(ctx context.Context) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w for %s", err, f.url)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w for %s", err, f.url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d for %s", resp.StatusCode, f.url)
	}

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w for %s", err, f.url)
	}

	return &manifest, nil
}
