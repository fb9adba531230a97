package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/contentvault/internal/blocks"
	"github.com/hpungsan/contentvault/internal/content"
)

// fakeBackend is an in-memory content.Backend that records calls.
type fakeBackend struct {
	items  []content.Item
	page   *content.Page
	blocks []blocks.Block

	queryErr  error
	pageErr   error
	blocksErr error

	calls   []string
	lastNew content.NewItem
	lastChg content.Changes
}

func (f *fakeBackend) Query(_ context.Context, filter content.Filter) ([]content.Item, error) {
	f.calls = append(f.calls, "query")
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []content.Item
	for _, it := range f.items {
		if filter.Matches(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeBackend) Create(_ context.Context, in content.NewItem) (*content.Item, error) {
	f.calls = append(f.calls, "create")
	f.lastNew = in
	item := content.Item{ID: fmt.Sprintf("item-%d", len(f.items)+1), Title: in.Title, URL: in.URL, Status: in.Status}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeBackend) Update(_ context.Context, id string, c content.Changes) (*content.Item, error) {
	f.calls = append(f.calls, "update:"+id)
	f.lastChg = c
	item := content.Item{ID: id}
	if c.Status != nil {
		item.Status = *c.Status
	}
	if c.Favorite != nil {
		item.Favorite = *c.Favorite
	}
	return &item, nil
}

func (f *fakeBackend) Archive(_ context.Context, id string) error {
	f.calls = append(f.calls, "archive:"+id)
	return nil
}

func (f *fakeBackend) FetchPage(_ context.Context, id string) (*content.Page, error) {
	f.calls = append(f.calls, "page:"+id)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if f.page == nil {
		return &content.Page{Title: content.Untitled}, nil
	}
	return f.page, nil
}

func (f *fakeBackend) FetchBlockChildren(_ context.Context, id string) ([]blocks.Block, error) {
	f.calls = append(f.calls, "blocks:"+id)
	if f.blocksErr != nil {
		return nil, f.blocksErr
	}
	return f.blocks, nil
}

// upstreamFailure mimics a store error carrying an upstream message.
type upstreamFailure struct{ msg string }

func (e *upstreamFailure) Error() string           { return "upstream: " + e.msg }
func (e *upstreamFailure) UpstreamMessage() string { return e.msg }

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
