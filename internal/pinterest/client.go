package pinterest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the Scrape Creators Pinterest search endpoint.
const DefaultEndpoint = "https://api.scrapecreators.com/v1/pinterest/search"

// DefaultTimeout bounds the single upstream request. There are no retries;
// the pipeline favors fast fallback over resilience-through-retry.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of the upstream body is read.
const maxResponseBytes = 8 << 20

// Searcher issues one keyword search against the upstream provider.
type Searcher interface {
	Search(ctx context.Context, keyword string) (SearchResponse, error)
}

// ClientConfig carries the resolved endpoint and credential for the Client.
type ClientConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client talks to the Scrape Creators Pinterest API. It holds one HTTP
// client whose connections are reused across calls; everything else is
// read-only after construction, so concurrent Search calls are safe.
type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
	logger   *zap.Logger
}

// NewClient builds a Client. It fails with ErrMissingAPIKey when no
// credential was resolved; misconfiguration is fatal here, not recoverable
// by fallback.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpc:    &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}, nil
}

// Search issues one GET with the keyword as the query parameter and the trim
// flag requesting a reduced payload. Any network fault, non-2xx status,
// undecodable body, or false success indicator yields a *FetchError.
func (c *Client) Search(ctx context.Context, keyword string) (SearchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return SearchResponse{}, &FetchError{Keyword: keyword, Cause: fmt.Errorf("build request: %w", err)}
	}
	q := req.URL.Query()
	q.Set("query", keyword)
	q.Set("trim", "true")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return SearchResponse{}, &FetchError{Keyword: keyword, Cause: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("close response body", zap.Error(cerr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return SearchResponse{}, &FetchError{Keyword: keyword, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SearchResponse{}, &FetchError{
			Keyword:    keyword,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var parsed SearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SearchResponse{}, &FetchError{Keyword: keyword, StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode payload: %w", err)}
	}
	if !parsed.Success {
		return SearchResponse{}, &FetchError{Keyword: keyword, StatusCode: resp.StatusCode, Cause: ErrUpstreamUnsuccessful}
	}
	parsed.Raw = body
	return parsed, nil
}
