package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
	Status string `json:"status,omitempty"` // default: Inbox
	Notes  string `json:"notes,omitempty"`
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Item content.Item `json:"item"`
}

// Add validates input and creates a new item.
func Add(ctx context.Context, store content.Store, input AddInput) (*AddOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	rawURL, err := validateWebURL(input.URL)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = content.StatusInbox
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	item, err := store.Create(ctx, content.NewItem{
		Title:  title,
		URL:    rawURL,
		Type:   strings.TrimSpace(input.Type),
		Source: strings.TrimSpace(input.Source),
		Status: status,
		Notes:  strings.TrimSpace(input.Notes),
	})
	if err != nil {
		return nil, upstreamError(err, "Failed to add content")
	}
	return &AddOutput{Item: *item}, nil
}
