package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/contentvault/internal/blocks"
	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/metrics"
	"github.com/hpungsan/contentvault/internal/pageid"
)

// PreviewInput contains parameters for the Preview operation.
type PreviewInput struct {
	URL string
}

// PreviewOutput is a rendered page.
type PreviewOutput struct {
	Title string  `json:"title"`
	HTML  string  `json:"html"`
	Icon  *string `json:"icon"`
	Cover *string `json:"cover"`

	PageID string         `json:"-"`
	Blocks []blocks.Block `json:"-"`
}

// Preview resolves a page URL, reads the page and its top-level blocks,
// and renders them to HTML. Either read failing fails the whole preview.
func Preview(ctx context.Context, pages content.PageSource, input PreviewInput) (*PreviewOutput, error) {
	raw := strings.TrimSpace(input.URL)
	if raw == "" {
		return nil, errors.NewInvalidRequest("URL required")
	}
	id, ok := pageid.Extract(raw)
	if !ok {
		return nil, errors.NewInvalidRequest(pageid.ErrInvalidURL.Error())
	}

	page, err := pages.FetchPage(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "Failed to fetch page")
	}

	list, err := pages.FetchBlockChildren(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "Failed to fetch blocks")
	}

	for _, b := range list {
		metrics.RenderedBlocks.WithLabelValues(string(b.Kind)).Inc()
	}

	title := page.Title
	if title == "" {
		title = content.Untitled
	}

	return &PreviewOutput{
		Title:  title,
		HTML:   blocks.RenderHTML(list),
		Icon:   page.Icon,
		Cover:  page.Cover,
		PageID: id,
		Blocks: list,
	}, nil
}

// PageIDInput contains parameters for the PageID operation.
type PageIDInput struct {
	URL string
}

// PageIDOutput contains the extracted identifier.
type PageIDOutput struct {
	ID string `json:"id"`
}

// PageID extracts the page identifier from a Notion URL or raw id.
func PageID(input PageIDInput) (*PageIDOutput, error) {
	raw := strings.TrimSpace(input.URL)
	if raw == "" {
		return nil, errors.NewInvalidRequest("URL required")
	}
	id, err := pageid.MustExtract(raw)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return &PageIDOutput{ID: id}, nil
}
