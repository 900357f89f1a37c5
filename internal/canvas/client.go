package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
)

// UpstreamError reports a non-2xx response from the Canvas API. It carries
// the upstream status code and body unchanged so the HTTP boundary can relay
// them to the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("canvas upstream returned %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated requests against the Canvas REST API.
// It performs no retries and no caching — a single failed call is a single
// failed call. Safe for concurrent use; the underlying connection pool is
// shared but carries no call-ordering dependence.
type Client struct {
	http     *resty.Client
	pageSize int
}

// New creates a Client from configuration. The bearer credential and the
// explicit request timeout come from config so tests can point the client
// at a mock endpoint per test case.
func New(cfg *config.Config) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.CanvasAPIURL, "/")).
		SetTimeout(cfg.CanvasTimeout)

	if cfg.CanvasAPIToken != "" {
		rc.SetAuthToken(cfg.CanvasAPIToken)
	}

	pageSize := cfg.CanvasPageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	return &Client{http: rc, pageSize: pageSize}
}

// get performs a GET against path, decoding a 2xx JSON body into out.
// Non-2xx responses become *UpstreamError; transport failures are wrapped
// and returned as-is.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("canvas request %s: %w", path, err)
	}

	if !resp.IsSuccess() {
		return &UpstreamError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode canvas response %s: %w", path, err)
	}
	return nil
}

// listQuery returns the base query for list endpoints. Canvas paginates at
// 10 items by default; a large page size keeps single-page results complete
// for realistic course sizes without implementing cursor pagination.
func (c *Client) listQuery() url.Values {
	q := url.Values{}
	q.Set("per_page", fmt.Sprintf("%d", c.pageSize))
	return q
}
