package blocks

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse decodes Notion block records. It accepts either a block-children
// response object ({"results": [...]}) or a bare JSON array of blocks.
func Parse(raw []byte) ([]Block, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid block JSON")
	}

	doc := gjson.ParseBytes(raw)
	records := doc
	if !doc.IsArray() {
		records = doc.Get("results")
	}

	items := records.Array()
	out := make([]Block, 0, len(items))
	for _, rec := range items {
		out = append(out, ParseBlock(rec))
	}
	return out, nil
}

// ParseBlock decodes a single block record. Missing payload fields decode to
// zero values so that partial records still render.
func ParseBlock(rec gjson.Result) Block {
	typ := rec.Get("type").String()
	b := Block{
		ID:          rec.Get("id").String(),
		Kind:        KindOf(typ),
		Type:        typ,
		HasChildren: rec.Get("has_children").Bool(),
	}
	if b.Kind == KindUnknown {
		return b
	}

	// Known type names are plain identifiers and safe to use as paths.
	payload := rec.Get(typ)

	switch b.Kind {
	case KindParagraph, KindHeading1, KindHeading2, KindHeading3,
		KindBulletedListItem, KindNumberedListItem, KindToggle, KindQuote, KindCode:
		b.Runs = ParseRichText(payload.Get("rich_text"))
	case KindToDo:
		b.Runs = ParseRichText(payload.Get("rich_text"))
		b.Checked = payload.Get("checked").Bool()
	case KindCallout:
		b.Runs = ParseRichText(payload.Get("rich_text"))
		b.Icon = payload.Get("icon.emoji").String()
	case KindImage:
		b.FileURL = payload.Get("file.url").String()
		b.ExternalURL = payload.Get("external.url").String()
	case KindBookmark, KindLinkPreview:
		b.URL = payload.Get("url").String()
	case KindChildDatabase, KindChildPage:
		b.Title = payload.Get("title").String()
	}
	return b
}

// ParseRichText decodes a Notion rich_text array.
func ParseRichText(arr gjson.Result) []InlineRun {
	if !arr.IsArray() {
		return nil
	}
	items := arr.Array()
	if len(items) == 0 {
		return nil
	}

	runs := make([]InlineRun, 0, len(items))
	for _, item := range items {
		ann := item.Get("annotations")
		runs = append(runs, InlineRun{
			Text: item.Get("plain_text").String(),
			Annotations: Annotations{
				Bold:          ann.Get("bold").Bool(),
				Italic:        ann.Get("italic").Bool(),
				Strikethrough: ann.Get("strikethrough").Bool(),
				Underline:     ann.Get("underline").Bool(),
				Code:          ann.Get("code").Bool(),
			},
			Href: item.Get("href").String(),
		})
	}
	return runs
}

// PlainText joins the text of runs without markup.
func PlainText(runs []InlineRun) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
