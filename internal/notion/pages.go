package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/hpungsan/contentvault/internal/blocks"
	"github.com/hpungsan/contentvault/internal/content"
)

// FetchPage reads page metadata: title, icon emoji, and cover URL.
func (c *Client) FetchPage(ctx context.Context, id string) (*content.Page, error) {
	key := "page:" + id
	if v, ok := c.cached(key); ok {
		return copyPage(v.(*content.Page)), nil
	}

	data, err := c.do(ctx, "fetch_page", http.MethodGet, "/pages/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	page := parsePage(gjson.ParseBytes(data))
	c.store(key, page)
	return copyPage(page), nil
}

// copyPage returns a deep copy of p so callers never share cache entries.
func copyPage(p *content.Page) *content.Page {
	cp := &content.Page{Title: p.Title}
	if p.Icon != nil {
		icon := *p.Icon
		cp.Icon = &icon
	}
	if p.Cover != nil {
		cover := *p.Cover
		cp.Cover = &cover
	}
	return cp
}

// FetchBlockChildren reads the first page (up to 100) of a block's children.
func (c *Client) FetchBlockChildren(ctx context.Context, id string) ([]blocks.Block, error) {
	key := "blocks:" + id
	if v, ok := c.cached(key); ok {
		cached := v.([]blocks.Block)
		return append([]blocks.Block(nil), cached...), nil
	}

	path := fmt.Sprintf("/blocks/%s/children?page_size=100", url.PathEscape(id))
	data, err := c.do(ctx, "fetch_blocks", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	list, err := blocks.Parse(data)
	if err != nil {
		return nil, err
	}
	c.store(key, list)
	return append([]blocks.Block(nil), list...), nil
}

func parsePage(page gjson.Result) *content.Page {
	props := page.Get("properties")
	p := &content.Page{
		Title: pageTitle(props, "title", "Name"),
	}
	if icon := page.Get("icon.emoji").String(); icon != "" {
		p.Icon = &icon
	}
	cover := page.Get("cover.external.url").String()
	if cover == "" {
		cover = page.Get("cover.file.url").String()
	}
	if cover != "" {
		p.Cover = &cover
	}
	return p
}

// pageTitle reads the title of the first named property that exists.
// A present but empty property does not fall through to later names.
func pageTitle(props gjson.Result, names ...string) string {
	for _, name := range names {
		prop := props.Get(name)
		if !prop.Exists() {
			continue
		}
		if t := prop.Get("title.0.plain_text").String(); t != "" {
			return t
		}
		return content.Untitled
	}
	return content.Untitled
}

// firstTitle returns the first non-empty title among the named properties.
func firstTitle(props gjson.Result, names ...string) string {
	for _, name := range names {
		if t := props.Get(name).Get("title.0.plain_text").String(); t != "" {
			return t
		}
	}
	return content.Untitled
}
