package ops

import (
	"context"

	"github.com/hpungsan/contentvault/internal/content"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Type   string
	Status string
	Source string
	Search string
	Mode   string // unread, read, favorites, all (default)
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items   []content.Item        `json:"items"`
	Filters content.FilterOptions `json:"filters"`
	Count   int                   `json:"count"`
}

// List queries the store and applies the view mode. Filter options are
// computed from the queried items before mode filtering.
func List(ctx context.Context, store content.Store, input ListInput) (*ListOutput, error) {
	items, err := store.Query(ctx, content.Filter{
		Type:   input.Type,
		Status: input.Status,
		Source: input.Source,
		Search: input.Search,
	})
	if err != nil {
		return nil, storeError(err, "Failed to fetch content")
	}

	filters := content.Options(items)
	items = content.ParseMode(input.Mode).Apply(items)

	return &ListOutput{
		Items:   items,
		Filters: filters,
		Count:   len(items),
	}, nil
}
