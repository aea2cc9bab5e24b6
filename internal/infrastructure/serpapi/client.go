package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

const maxResponseBytes = 4 << 20 // search documents are large but bounded

// Client handles communication with the SerpAPI Google search engine
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	debug      bool
}

// NewClient creates a new SerpAPI client
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// SetDebug toggles verbose request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[SERPAPI] "+format, args...)
	}
}

// exponentialBackoff returns the sleep duration before the given retry
// attempt, doubling from 500ms
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// Search runs a site-restricted product search against the Google engine
// and returns the raw result document. Results are always requested fresh
// (no_cache) so edited comparisons reflect current listings.
func (c *Client) Search(ctx context.Context, query, site string) (*domain.SearchResults, error) {
	endpoint := fmt.Sprintf("%s/search", c.baseURL)
	params := url.Values{}
	params.Add("engine", "google")
	params.Add("q", fmt.Sprintf("%s site:%s", query, site))
	params.Add("api_key", c.apiKey)
	params.Add("no_cache", "true")

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	c.debugLog("Search %s for %q", site, query)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[SERPAPI] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if sleepErr := sleepCtx(ctx, exponentialBackoff(attempt)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		body, err := readLimitedBody(resp.Body, maxResponseBytes)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		// Retry 5xx and 429; other non-200 statuses are terminal
		if resp.StatusCode != http.StatusOK {
			log.Printf("[SERPAPI] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchAPIFailure, resp.StatusCode)
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				if sleepErr := sleepCtx(ctx, exponentialBackoff(attempt)); sleepErr != nil {
					return nil, sleepErr
				}
				continue
			}
			return nil, lastErr
		}

		var results domain.SearchResults
		if err := json.Unmarshal(body, &results); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		c.debugLog("Search %s returned %d shopping, %d organic results",
			site, len(results.ShoppingResults), len(results.OrganicResults))
		return &results, nil
	}

	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchAPIFailure, err)
	}

	return resp, nil
}

// readLimitedBody reads at most limit bytes from the response body
func readLimitedBody(body io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, limit))
}

// sleepCtx sleeps for d unless the context is cancelled first
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
