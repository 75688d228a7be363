// Package lightspeed implements the HTTP client for the Lightspeed Retail
// (X-Series) API: bearer-token auth, cooperative rate limiting, pagination
// and the 429 retry contract.
package lightspeed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/craftco/lightspeed-sync/pkg/metrics"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultPageSize       = 200
	defaultRetryAfter     = 300 * time.Second
	maxBodyExcerpt        = 512
	maxAccumulatedRecords = 100000
	maxPages              = 1000
)

// Client talks to one Lightspeed account. It is safe for sequential use by
// a single sync cycle; the limiter serializes requests at a fixed minimum
// interval (token bucket of one).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	pageSize   int
	maxRecords int
}

// Option adjusts client construction, mostly for tests.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize overrides the page size used by offset pagination.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// WithMaxRecords overrides the runaway-pagination safety cap.
func WithMaxRecords(n int) Option {
	return func(c *Client) { c.maxRecords = n }
}

// NewClient builds a client enforcing at least interval between requests.
func NewClient(baseURL, token string, interval time.Duration, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     logger,
		pageSize:   defaultPageSize,
		maxRecords: maxAccumulatedRecords,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Customers fetches customers changed after the given version (0 = all).
func (c *Client) Customers(ctx context.Context, afterVersion int64) ([]RawCustomer, error) {
	return collectVersioned[RawCustomer](ctx, c, "2.0/customers", afterVersion)
}

// Outlets fetches all outlets. The endpoint has no version cursor.
func (c *Client) Outlets(ctx context.Context) ([]RawOutlet, error) {
	return collectPaged[RawOutlet](ctx, c, "2.0/outlets")
}

// Products fetches products changed after the given version (0 = all).
func (c *Client) Products(ctx context.Context, afterVersion int64) ([]RawProduct, error) {
	return collectVersioned[RawProduct](ctx, c, "2.0/products", afterVersion)
}

// Sales fetches sales changed after the given version (0 = all). Nested
// line items ride along in each payload.
func (c *Client) Sales(ctx context.Context, afterVersion int64) ([]RawSale, error) {
	return collectVersioned[RawSale](ctx, c, "2.0/sales", afterVersion)
}

// Inventory fetches every inventory level. No delta support upstream; each
// cycle re-reads the full set.
func (c *Client) Inventory(ctx context.Context) ([]RawInventory, error) {
	return collectPaged[RawInventory](ctx, c, "2.0/inventory")
}

// TestConnection issues a minimal single-record request and reports
// reachability. Used as a pre-flight gate before any sync cycle.
func (c *Client) TestConnection(ctx context.Context) bool {
	q := url.Values{}
	q.Set("page_size", "1")
	var env envelope[RawOutlet]
	if err := c.getJSON(ctx, "2.0/outlets", q, &env); err != nil {
		c.logger.Warn("Lightspeed connection test failed", "error", err)
		return false
	}
	return true
}

// getJSON performs one rate-limited GET against the API, decoding the
// response into out. Implements the full status-code contract: 401 fails
// fast, 429 sleeps Retry-After and retries exactly once, anything else
// non-200 surfaces as an API error with a body excerpt.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	resp, err := c.doRequest(ctx, endpoint, query)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := retryAfter(resp)
		drain(resp)

		c.logger.Warn("Rate limited by upstream, backing off once",
			"endpoint", endpoint,
			"retry_after", wait,
		)
		metrics.APIRateLimited.Inc()

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return &APIError{Kind: KindNetwork, Message: "canceled during rate-limit back-off", Err: ctx.Err()}
		}

		resp, err = c.doRequest(ctx, endpoint, query)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			excerpt := bodyExcerpt(resp)
			return &APIError{
				Kind:       KindRateLimit,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("rate limit retry failed: %s", excerpt),
			}
		}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Kind: KindAPI, Message: "malformed response body", Err: err}
		}
		return nil
	case http.StatusUnauthorized:
		drain(resp)
		return &APIError{
			Kind:       KindAuth,
			StatusCode: resp.StatusCode,
			Message:    "authentication failed, check bearer token",
		}
	default:
		excerpt := bodyExcerpt(resp)
		return &APIError{
			Kind:       KindAPI,
			StatusCode: resp.StatusCode,
			Message:    excerpt,
		}
	}
}

func (c *Client) doRequest(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: "canceled waiting for rate limiter", Err: err}
	}

	u := fmt.Sprintf("%s/api/%s", c.baseURL, endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Kind: KindAPI, Message: "building request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Lightspeed request", "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues("network_error").Inc()
		return nil, &APIError{Kind: KindNetwork, Message: "request failed", Err: err}
	}

	metrics.APIRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// retryAfter reads the Retry-After header in seconds, defaulting to the
// upstream's documented five-minute window when absent or unparsable.
func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

func bodyExcerpt(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyExcerpt))
	return strings.TrimSpace(string(b))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyExcerpt))
	resp.Body.Close()
}
