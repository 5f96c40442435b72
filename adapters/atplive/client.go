// Package atplive is the feed adapter for the ATP-style live scores
// upstream: one fetch per endpoint path, with a distinguishable "no data"
// condition the scheduler backs off on.
package atplive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/goccy/go-json"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "Argus/1.0 (ATP Live Event Monitor)"
)

// HTTPError carries the upstream status code for error classification.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// Client fetches live snapshots over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Ensure Client implements FeedAdapter
var _ contracts.FeedAdapter = (*Client)(nil)

// NewClient creates a live feed client. apiKey may be empty for feeds that
// don't require one.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// FetchSnapshot retrieves and decodes the current snapshot for an endpoint
// path. A 404 or empty body maps to contracts.ErrNoData.
func (c *Client) FetchSnapshot(ctx context.Context, endpoint string) (*models.Snapshot, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(endpoint, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", endpoint, contracts.ErrNoData)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%s: %w", endpoint, contracts.ErrNoData)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%s: %w", endpoint, contracts.ErrNoData)
	}

	return &models.Snapshot{
		Endpoint:  endpoint,
		Data:      data,
		FetchedAt: time.Now().UTC(),
	}, nil
}
