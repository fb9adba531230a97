// Package content defines content items and the store contracts that
// backends (Notion, local SQLite) implement.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/contentvault/internal/blocks"
)

// Status values.
const (
	StatusInbox    = "Inbox"
	StatusToRead   = "To Read"
	StatusReading  = "Reading"
	StatusDone     = "Done"
	StatusArchived = "Archived"
)

// Untitled is used when an item or page has no title.
const Untitled = "Untitled"

// KnownTypes lists the item types offered in the add form.
var KnownTypes = []string{"Article", "Video", "Podcast", "Book", "Paper", "Thread", "Tool", "Other"}

// KnownSources lists the item sources offered in the add form.
var KnownSources = []string{"YouTube", "Twitter", "Substack", "ArXiv", "Blog", "GitHub", "Newsletter", "Other"}

// KnownStatuses lists the triage statuses in workflow order.
var KnownStatuses = []string{StatusInbox, StatusToRead, StatusReading, StatusDone, StatusArchived}

// IsKnownStatus reports whether s is one of KnownStatuses.
func IsKnownStatus(s string) bool {
	for _, k := range KnownStatuses {
		if k == s {
			return true
		}
	}
	return false
}

// Item is one row of the content database.
type Item struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Type      string   `json:"type"`
	Source    string   `json:"source"`
	Channel   string   `json:"channel"`
	Status    string   `json:"status"`
	DateAdded string   `json:"dateAdded"`
	Tags      []string `json:"tags"`
	Priority  string   `json:"priority"`
	Notes     string   `json:"notes"`
	NotionURL string   `json:"notionUrl"`
	MDFileURL string   `json:"mdFileUrl,omitempty"`
	Favorite  bool     `json:"favorite"`
}

// NewItem holds the fields accepted when creating an item.
type NewItem struct {
	Title  string
	URL    string
	Type   string
	Source string
	Status string
	Notes  string
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	Status   *string
	Favorite *bool
}

// Empty reports whether no fields are set.
func (c Changes) Empty() bool {
	return c.Status == nil && c.Favorite == nil
}

// Filter narrows a query. Empty fields (or "all") are unset.
type Filter struct {
	Type   string
	Status string
	Source string
	Search string
}

// Normalize returns f with "all" values cleared and whitespace trimmed.
func (f Filter) Normalize() Filter {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "all") {
			return ""
		}
		return s
	}
	return Filter{
		Type:   clean(f.Type),
		Status: clean(f.Status),
		Source: clean(f.Source),
		Search: strings.TrimSpace(f.Search),
	}
}

// Matches reports whether item satisfies the filter. Backends that cannot
// push filters upstream use it to filter in memory.
func (f Filter) Matches(item Item) bool {
	f = f.Normalize()
	if f.Type != "" && item.Type != f.Type {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.Source != "" && item.Source != f.Source {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(item.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Page is the metadata needed to render a page preview.
type Page struct {
	Title string
	Icon  *string
	Cover *string
}

// Store is the content database.
type Store interface {
	Query(ctx context.Context, f Filter) ([]Item, error)
	Create(ctx context.Context, in NewItem) (*Item, error)
	Update(ctx context.Context, id string, c Changes) (*Item, error)
	Archive(ctx context.Context, id string) error
}

// PageSource reads pages and their top-level blocks.
type PageSource interface {
	FetchPage(ctx context.Context, id string) (*Page, error)
	FetchBlockChildren(ctx context.Context, id string) ([]blocks.Block, error)
}

// Backend is a Store that can also serve page previews.
type Backend interface {
	Store
	PageSource
}

// FormatDate renders t the way Notion date properties store it.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
