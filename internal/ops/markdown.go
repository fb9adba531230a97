package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/contentvault/internal/errors"
)

// MarkdownInput contains parameters for the FetchMarkdown operation.
type MarkdownInput struct {
	URL string
}

// MarkdownOutput contains the fetched markdown.
type MarkdownOutput struct {
	Content string `json:"content"`
	// SourceURL is the address fetched after link rewriting.
	SourceURL string `json:"-"`
}

// FetchMarkdown retrieves a markdown file referenced by an item.
func FetchMarkdown(ctx context.Context, source MarkdownSource, input MarkdownInput) (*MarkdownOutput, error) {
	raw := strings.TrimSpace(input.URL)
	if raw == "" {
		return nil, errors.NewInvalidRequest("URL is required")
	}

	res, err := source.Fetch(ctx, raw)
	if err != nil {
		return nil, errors.NewUpstream("", "Failed to fetch markdown content", err)
	}
	return &MarkdownOutput{Content: res.Content, SourceURL: res.URL}, nil
}
