// Package veganode is the typed REST client for the data-node API of a
// Vega blockchain node. It exposes markets, live market data, candles,
// governance proposals, and network statistics, converting the wire
// encodings (nanosecond timestamps, fixed-point decimal strings) into
// domain types at the boundary.
package veganode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// Client is the REST client for a single node.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the node at baseURL, e.g.
// "https://lb.testnet.vega.xyz". Every request carries the given timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// doGet sends a GET request to the node and returns the response body.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx statuses onto sentinel errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
