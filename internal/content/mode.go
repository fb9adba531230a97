package content

import "strings"

// Mode is a view over the item list.
type Mode string

const (
	ModeUnread    Mode = "unread"
	ModeRead      Mode = "read"
	ModeFavorites Mode = "favorites"
	ModeAll       Mode = "all"
)

// ParseMode returns the mode named by s, defaulting to ModeAll.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeUnread:
		return ModeUnread
	case ModeRead:
		return ModeRead
	case ModeFavorites:
		return ModeFavorites
	default:
		return ModeAll
	}
}

// Includes reports whether item belongs in the mode's view.
func (m Mode) Includes(item Item) bool {
	switch m {
	case ModeUnread:
		return item.Status != StatusDone
	case ModeRead:
		return item.Status == StatusDone
	case ModeFavorites:
		return item.Favorite
	default:
		return true
	}
}

// Apply returns the items the mode includes, preserving order.
func (m Mode) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if m.Includes(it) {
			out = append(out, it)
		}
	}
	return out
}

// FilterOptions are the distinct values present in a set of items.
type FilterOptions struct {
	Types    []string `json:"types"`
	Sources  []string `json:"sources"`
	Channels []string `json:"channels"`
	Statuses []string `json:"statuses"`
}

// Options collects distinct non-empty values in first-seen order.
func Options(items []Item) FilterOptions {
	var (
		opts = FilterOptions{
			Types:    []string{},
			Sources:  []string{},
			Channels: []string{},
			Statuses: []string{},
		}
		seen = map[string]map[string]bool{
			"type": {}, "source": {}, "channel": {}, "status": {},
		}
	)
	add := func(kind, v string, dst *[]string) {
		if v == "" || seen[kind][v] {
			return
		}
		seen[kind][v] = true
		*dst = append(*dst, v)
	}
	for _, it := range items {
		add("type", it.Type, &opts.Types)
		add("source", it.Source, &opts.Sources)
		add("channel", it.Channel, &opts.Channels)
		add("status", it.Status, &opts.Statuses)
	}
	return opts
}
