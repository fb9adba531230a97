package notion

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hpungsan/contentvault/internal/content"
	vaulterrors "github.com/hpungsan/contentvault/internal/errors"
)

// Database property names.
const (
	propTitle     = "Title"
	propName      = "Name"
	propURL       = "URL"
	propType      = "Type"
	propSource    = "Source"
	propChannel   = "Channel"
	propStatus    = "Status"
	propDateAdded = "Date Added"
	propTags      = "Tags"
	propPriority  = "Priority"
	propNotes     = "Notes"
	propMDFile    = "MD File"
	propFavorite  = "Favorite"
)

const queryPageSize = 100

func (c *Client) requireDatabase() error {
	if c.databaseID == "" {
		return vaulterrors.NewNotConfigured("Database ID not configured")
	}
	return nil
}

// Query lists database rows matching f, newest first.
func (c *Client) Query(ctx context.Context, f content.Filter) ([]content.Item, error) {
	if err := c.requireDatabase(); err != nil {
		return nil, err
	}

	path := "/databases/" + url.PathEscape(c.databaseID) + "/query"
	data, err := c.do(ctx, "query_database", http.MethodPost, path, buildQuery(f))
	if err != nil {
		return nil, err
	}

	results := gjson.GetBytes(data, "results").Array()
	items := make([]content.Item, 0, len(results))
	for _, page := range results {
		items = append(items, itemFromPage(page))
	}
	return items, nil
}

// buildQuery returns the query body for f. Empty filters are omitted.
func buildQuery(f content.Filter) map[string]any {
	f = f.Normalize()

	var clauses []map[string]any
	selectEq := func(prop, value string) {
		if value != "" {
			clauses = append(clauses, map[string]any{
				"property": prop,
				"select":   map[string]any{"equals": value},
			})
		}
	}
	selectEq(propType, f.Type)
	selectEq(propStatus, f.Status)
	selectEq(propSource, f.Source)
	if f.Search != "" {
		clauses = append(clauses, map[string]any{
			"property": propTitle,
			"title":    map[string]any{"contains": f.Search},
		})
	}

	body := map[string]any{
		"sorts": []map[string]any{
			{"property": propDateAdded, "direction": "descending"},
		},
		"page_size": queryPageSize,
	}
	if len(clauses) > 0 {
		body["filter"] = map[string]any{"and": clauses}
	}
	return body
}

// Create adds a row to the database.
func (c *Client) Create(ctx context.Context, in content.NewItem) (*content.Item, error) {
	if err := c.requireDatabase(); err != nil {
		return nil, err
	}

	props := map[string]any{
		propTitle: map[string]any{
			"title": []map[string]any{{"text": map[string]any{"content": in.Title}}},
		},
		propURL:       map[string]any{"url": in.URL},
		propStatus:    selectValue(in.Status),
		propDateAdded: map[string]any{"date": map[string]any{"start": content.FormatDate(time.Now())}},
	}
	if in.Type != "" {
		props[propType] = selectValue(in.Type)
	}
	if in.Source != "" {
		props[propSource] = selectValue(in.Source)
	}
	if in.Notes != "" {
		props[propNotes] = map[string]any{
			"rich_text": []map[string]any{{"text": map[string]any{"content": in.Notes}}},
		}
	}

	body := map[string]any{
		"parent":     map[string]any{"database_id": c.databaseID},
		"properties": props,
	}
	data, err := c.do(ctx, "create_page", http.MethodPost, "/pages", body)
	if err != nil {
		return nil, err
	}
	item := itemFromPage(gjson.ParseBytes(data))
	return &item, nil
}

// Update sets status and/or favorite on a row.
func (c *Client) Update(ctx context.Context, id string, ch content.Changes) (*content.Item, error) {
	props := map[string]any{}
	if ch.Status != nil {
		props[propStatus] = selectValue(*ch.Status)
	}
	if ch.Favorite != nil {
		props[propFavorite] = map[string]any{"checkbox": *ch.Favorite}
	}

	data, err := c.do(ctx, "update_page", http.MethodPatch, "/pages/"+url.PathEscape(id),
		map[string]any{"properties": props})
	if err != nil {
		return nil, err
	}
	c.forget(id)
	item := itemFromPage(gjson.ParseBytes(data))
	return &item, nil
}

// Archive moves a row to the Notion trash.
func (c *Client) Archive(ctx context.Context, id string) error {
	_, err := c.do(ctx, "archive_page", http.MethodPatch, "/pages/"+url.PathEscape(id),
		map[string]any{"archived": true})
	if err == nil {
		c.forget(id)
	}
	return err
}

func selectValue(name string) map[string]any {
	return map[string]any{"select": map[string]any{"name": name}}
}

// itemFromPage maps a database row to an Item.
func itemFromPage(page gjson.Result) content.Item {
	props := page.Get("properties")
	sel := func(name string) string {
		return props.Get(name).Get("select.name").String()
	}

	item := content.Item{
		ID:        page.Get("id").String(),
		Title:     firstTitle(props, propTitle, propName),
		URL:       props.Get(propURL).Get("url").String(),
		Type:      sel(propType),
		Source:    sel(propSource),
		Channel:   sel(propChannel),
		Status:    sel(propStatus),
		DateAdded: props.Get(propDateAdded).Get("date.start").String(),
		Tags:      []string{},
		Priority:  sel(propPriority),
		Notes:     props.Get(propNotes).Get("rich_text.0.plain_text").String(),
		NotionURL: page.Get("url").String(),
		MDFileURL: props.Get(propMDFile).Get("url").String(),
		Favorite:  props.Get(propFavorite).Get("checkbox").Bool(),
	}
	if item.Channel == "" {
		item.Channel = props.Get(propChannel).Get("rich_text.0.plain_text").String()
	}
	if item.Status == "" {
		item.Status = content.StatusInbox
	}
	if item.DateAdded == "" {
		item.DateAdded = page.Get("created_time").String()
	}
	props.Get(propTags).Get("multi_select").ForEach(func(_, tag gjson.Result) bool {
		if name := tag.Get("name").String(); name != "" {
			item.Tags = append(item.Tags, name)
		}
		return true
	})
	return item
}
