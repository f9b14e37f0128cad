// Package fetch provides the shared HTTP client used by sources, the
// resolver backfill, and AI providers. All outbound requests go through it
// so the user agent, timeout, and retry behavior stay consistent.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// UserAgent identifies the scraper to remote sites.
	UserAgent = "frankenevents/1.0 (github.com/mhartmann/frankenevents)"

	// Timeout bounds a single request. Kept short so a slow source can
	// only burn its own budget (see the run-level item cap).
	Timeout = 15 * time.Second

	// maxRetries is the number of retries after the first attempt.
	maxRetries = 2

	// maxBodySize caps response bodies; event listings are small and a
	// misconfigured URL should not balloon memory.
	maxBodySize = 4 << 20 // 4 MiB
)

// Client fetches URLs with a fixed timeout and bounded retry.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a Client with the package defaults.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: Timeout},
		userAgent:  UserAgent,
	}
}

// NewWithHTTPClient creates a Client around an existing http.Client.
// Used by tests to point at httptest servers with custom transports.
func NewWithHTTPClient(hc *http.Client) *Client {
	return &Client{httpClient: hc, userAgent: UserAgent}
}

// Get fetches url and returns the response body. Transient failures
// (network errors, 5xx, 429) are retried with exponential backoff; other
// non-2xx statuses fail immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return fmt.Errorf("reading body from %s: %w", url, err)
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}
	return body, nil
}
