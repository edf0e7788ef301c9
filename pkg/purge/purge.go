// Package purge is the thin client for the two cache-control operations
// against the CDN edge API: purging a single URL and purging an entire
// pull zone. Both are one-shot authenticated HTTP requests, independent
// of the sync engine.
package purge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const edgeAPIBase = "https://api.bunny.net"

// Client issues authenticated requests against the edge API.
type Client struct {
	apiKey string
	http   *http.Client
}

// NewClient builds a purge Client using apiKey for every request.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, http: &http.Client{}}
}

// URL purges a single URL (wildcard `*` allowed at the end) from the cache.
func (c *Client) URL(ctx context.Context, target string) error {
	reqURL := fmt.Sprintf("%s/purge?url=%s&async=false", edgeAPIBase, url.QueryEscape(target))
	return c.post(ctx, reqURL)
}

// Zone purges an entire pull zone's cache by numeric ID. cacheTag is
// optional; when non-empty it scopes the purge to objects carrying that
// cache tag instead of the whole zone.
func (c *Client) Zone(ctx context.Context, pullZoneID uint64, cacheTag string) error {
	if cacheTag != "" {
		reqURL := fmt.Sprintf("%s/pullzone/%d/purgeCache?cacheTag=%s", edgeAPIBase, pullZoneID, url.QueryEscape(cacheTag))
		return c.post(ctx, reqURL)
	}
	reqURL := fmt.Sprintf("%s/pullzone/%d/purgeCache", edgeAPIBase, pullZoneID)
	return c.post(ctx, reqURL)
}

func (c *Client) post(ctx context.Context, reqURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build purge request: %w", err)
	}
	req.Header.Set("AccessKey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("purge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("purge failed: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
