// Package fetch retrieves markdown files referenced by content items.
// Google Drive view links are rewritten to direct downloads, and HTML
// responses are reduced to their main content and converted to Markdown.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"time"

	"github.com/hpungsan/contentvault/internal/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "ContentVault/1.0"

	// MaxBodyBytes caps how much of a response is read.
	MaxBodyBytes = 10 << 20
)

var driveFilePattern = regexp.MustCompile(`drive\.google\.com/file/d/([^/]+)`)

// Result is a fetched document.
type Result struct {
	// Content is the markdown text.
	Content string `json:"content"`
	// URL is the address actually requested, after rewriting.
	URL string `json:"url"`
}

// HTTPFetcher fetches documents over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher. A zero timeout uses the default.
func New(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// NewWithClient creates an HTTPFetcher using client.
func NewWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// ResolveURL rewrites Google Drive file view URLs to direct download URLs.
// Other URLs are returned unchanged.
func ResolveURL(raw string) string {
	if m := driveFilePattern.FindStringSubmatch(raw); m != nil {
		return "https://drive.google.com/uc?export=download&id=" + m[1]
	}
	return raw
}

// Fetch retrieves the document at rawURL as markdown.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()
	res, err := f.fetch(ctx, ResolveURL(rawURL))
	metrics.ObserveUpstream("fetch_markdown", time.Since(start).Seconds(), err)
	return res, err
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/markdown,text/plain,text/html;q=0.8,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, MaxBodyBytes)
	}

	text := string(body)
	if isHTML(resp.Header.Get("Content-Type")) {
		text, err = HTMLToMarkdown(text)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Content: text, URL: url}, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
