// Package notion is a small client for the Notion endpoints the vault uses:
// database query, page create/update/archive, page read, and block children.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"

	"github.com/hpungsan/contentvault/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
	defaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Options configures a Client.
type Options struct {
	Token      string
	DatabaseID string
	BaseURL    string
	Version    string
	Timeout    time.Duration

	// CacheTTL caches page and block reads. Zero disables the cache.
	CacheTTL time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the Notion API.
type Client struct {
	http       *http.Client
	cache      *cache.Cache
	baseURL    string
	token      string
	version    string
	databaseID string
}

// New returns a Client for opts.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		version:    opts.Version,
		databaseID: opts.DatabaseID,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if opts.CacheTTL > 0 {
		c.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return c
}

// APIError is a non-2xx Notion response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notion: status %d", e.Status)
	}
	return fmt.Sprintf("notion: %s (status %d)", e.Message, e.Status)
}

// UpstreamMessage returns the message Notion attached to the failure.
func (e *APIError) UpstreamMessage() string {
	return e.Message
}

// StatusCode returns the HTTP status of the response.
func (e *APIError) StatusCode() int {
	return e.Status
}

// do sends a request and returns the response body. body, when non-nil,
// is encoded as JSON. operation labels the upstream metrics.
func (c *Client) do(ctx context.Context, operation, method, path string, body any) ([]byte, error) {
	start := time.Now()
	data, err := c.send(ctx, method, path, body)
	metrics.ObserveUpstream(operation, time.Since(start).Seconds(), err)
	return data, err
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			Status:  resp.StatusCode,
			Code:    gjson.GetBytes(raw, "code").String(),
			Message: gjson.GetBytes(raw, "message").String(),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON response from %s %s", method, path)
	}
	return data, nil
}

func (c *Client) cached(key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	metrics.CacheResult("notion", ok)
	return v, ok
}

func (c *Client) store(key string, v any) {
	if c.cache != nil {
		c.cache.Set(key, v, cache.DefaultExpiration)
	}
}

func (c *Client) forget(id string) {
	if c.cache != nil {
		c.cache.Delete("page:" + id)
		c.cache.Delete("blocks:" + id)
	}
}
