// Package blocks models Notion content blocks and renders them to HTML.
//
// Rendering is a single pass over a flat block list. Nested children (list
// nesting, toggle bodies, child pages) are not resolved.
package blocks

// Kind is the block type discriminant as reported by Notion.
type Kind string

const (
	KindParagraph        Kind = "paragraph"
	KindHeading1         Kind = "heading_1"
	KindHeading2         Kind = "heading_2"
	KindHeading3         Kind = "heading_3"
	KindBulletedListItem Kind = "bulleted_list_item"
	KindNumberedListItem Kind = "numbered_list_item"
	KindToDo             Kind = "to_do"
	KindToggle           Kind = "toggle"
	KindQuote            Kind = "quote"
	KindCallout          Kind = "callout"
	KindCode             Kind = "code"
	KindDivider          Kind = "divider"
	KindImage            Kind = "image"
	KindBookmark         Kind = "bookmark"
	KindLinkPreview      Kind = "link_preview"
	KindChildDatabase    Kind = "child_database"
	KindChildPage        Kind = "child_page"
	KindUnknown          Kind = "unknown"
)

var knownKinds = map[Kind]bool{
	KindParagraph: true, KindHeading1: true, KindHeading2: true, KindHeading3: true,
	KindBulletedListItem: true, KindNumberedListItem: true, KindToDo: true, KindToggle: true,
	KindQuote: true, KindCallout: true, KindCode: true, KindDivider: true, KindImage: true,
	KindBookmark: true, KindLinkPreview: true, KindChildDatabase: true, KindChildPage: true,
}

// KindOf maps a Notion type string to a Kind. Unrecognized types map to KindUnknown.
func KindOf(typ string) Kind {
	k := Kind(typ)
	if knownKinds[k] {
		return k
	}
	return KindUnknown
}

// Annotations are independently combinable inline styles.
type Annotations struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Code          bool `json:"code,omitempty"`
}

// InlineRun is a span of text sharing annotations and an optional link.
type InlineRun struct {
	Text        string      `json:"text"`
	Annotations Annotations `json:"annotations"`
	Href        string      `json:"href,omitempty"`
}

// Block is one structural unit of a page.
// Only the payload fields that belong to Kind are populated.
type Block struct {
	ID          string `json:"id,omitempty"`
	Kind        Kind   `json:"kind"`
	Type        string `json:"type"` // raw Notion type, kept for unknown kinds
	HasChildren bool   `json:"has_children,omitempty"`

	Runs        []InlineRun `json:"runs,omitempty"`
	Checked     bool        `json:"checked,omitempty"`      // to_do
	Icon        string      `json:"icon,omitempty"`         // callout
	FileURL     string      `json:"file_url,omitempty"`     // image
	ExternalURL string      `json:"external_url,omitempty"` // image
	URL         string      `json:"url,omitempty"`          // bookmark, link_preview
	Title       string      `json:"title,omitempty"`        // child_database, child_page
}

// Text returns a text-bearing block of the given kind.
func Text(kind Kind, runs ...InlineRun) Block {
	return Block{Kind: kind, Type: string(kind), Runs: runs}
}

// Plain returns an unannotated run.
func Plain(s string) InlineRun {
	return InlineRun{Text: s}
}
