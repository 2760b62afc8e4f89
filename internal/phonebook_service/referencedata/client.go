// Package referencedata supplies the sets of valid country codes and timezone
// names, fetched from an upstream HTTP API and cached.
package referencedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Resource names an upstream collection; it is also the path segment and cache key.
type Resource string

const (
	Countries Resource = "countries"
	Timezones Resource = "timezones"
)

var (
	// ErrUnexpectedStatus is returned when the upstream answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	// ErrMalformedResponse is returned when the body has no usable "result" object.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

const maxResponseBytes = 4 << 20

type upstreamResponse struct {
	Status string                     `json:"status"`
	Result map[string]json.RawMessage `json:"result"`
}

// Client fetches reference collections from the upstream API.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client. When httpClient is nil a client with the given
// timeout is created.
func NewClient(logger *slog.Logger, baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		logger:     logger.With("component", "reference_client"),
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fetch returns the upstream "result" mapping for resource.
func (c *Client) Fetch(ctx context.Context, resource Resource) (map[string]json.RawMessage, error) {
	url := c.baseURL + "/" + string(resource)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", resource, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	referenceFetchDurationHist.WithLabelValues(string(resource)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, resource, httpResp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", resource, err)
	}

	var decoded upstreamResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, resource, err)
	}
	if decoded.Result == nil {
		return nil, fmt.Errorf("%w: %s: missing result", ErrMalformedResponse, resource)
	}

	c.logger.DebugContext(ctx, "Fetched reference data", "resource", resource, "entries", len(decoded.Result))
	return decoded.Result, nil
}
