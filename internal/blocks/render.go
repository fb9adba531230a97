package blocks

import (
	"html"
	"net/url"
	"strings"
)

// DefaultCalloutIcon is shown for callouts without an emoji icon.
const DefaultCalloutIcon = "💡"

// textEscaper escapes the three characters reserved in HTML text content.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes &, < and > in s.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// RenderHTML renders blocks to a single HTML string. Fragments are joined
// without a separator; block-level classes provide spacing.
func RenderHTML(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(RenderBlock(b))
	}
	return sb.String()
}

// RenderBlock renders one block. Unknown kinds render as the empty string.
func RenderBlock(b Block) string {
	switch b.Kind {
	case KindParagraph:
		text := RenderRuns(b.Runs)
		if text == "" {
			return `<p class="mb-3">&nbsp;</p>`
		}
		return `<p class="mb-3">` + text + `</p>`

	case KindHeading1:
		return `<h1 class="text-2xl font-bold mb-4 mt-6">` + RenderRuns(b.Runs) + `</h1>`
	case KindHeading2:
		return `<h2 class="text-xl font-bold mb-3 mt-5">` + RenderRuns(b.Runs) + `</h2>`
	case KindHeading3:
		return `<h3 class="text-lg font-bold mb-2 mt-4">` + RenderRuns(b.Runs) + `</h3>`

	// List items are emitted flat; numbering and <ul>/<ol> grouping are left to the source.
	case KindBulletedListItem:
		return `<li class="ml-4 mb-1">• ` + RenderRuns(b.Runs) + `</li>`
	case KindNumberedListItem:
		return `<li class="ml-4 mb-1">` + RenderRuns(b.Runs) + `</li>`

	case KindToDo:
		box := "☐"
		if b.Checked {
			box = "☑"
		}
		return `<div class="mb-1">` + box + ` ` + RenderRuns(b.Runs) + `</div>`

	// Toggle bodies are children and are not fetched.
	case KindToggle:
		return `<details class="mb-2"><summary class="cursor-pointer">` + RenderRuns(b.Runs) + `</summary></details>`

	case KindQuote:
		return `<blockquote class="border-l-4 border-zinc-600 pl-4 italic my-3">` + RenderRuns(b.Runs) + `</blockquote>`

	case KindCallout:
		icon := b.Icon
		if icon == "" {
			icon = DefaultCalloutIcon
		}
		return `<div class="bg-zinc-800 rounded p-3 mb-3 flex gap-2"><span>` + EscapeText(icon) +
			`</span><span>` + RenderRuns(b.Runs) + `</span></div>`

	case KindCode:
		return `<pre class="bg-zinc-800 rounded p-3 mb-3 overflow-x-auto text-sm"><code>` + RenderRuns(b.Runs) + `</code></pre>`

	case KindDivider:
		return `<hr class="border-zinc-700 my-4" />`

	case KindImage:
		src := b.FileURL
		if src == "" {
			src = b.ExternalURL
		}
		if src == "" {
			return ""
		}
		return `<img src="` + attr(src) + `" alt="" class="max-w-full rounded mb-3" />`

	case KindBookmark, KindLinkPreview:
		if !safeHref(b.URL) {
			return ""
		}
		return `<a href="` + attr(b.URL) + `" target="_blank" rel="noopener noreferrer" class="text-blue-400 hover:underline block mb-2">` +
			EscapeText(b.URL) + `</a>`

	case KindChildDatabase:
		return `<div class="bg-zinc-800 rounded p-3 mb-3 text-zinc-400">📊 Database: ` + EscapeText(titleOrUntitled(b.Title)) + `</div>`
	case KindChildPage:
		return `<div class="bg-zinc-800 rounded p-3 mb-3 text-zinc-400">📄 Page: ` + EscapeText(titleOrUntitled(b.Title)) + `</div>`

	default:
		return ""
	}
}

// RenderRuns renders inline runs. Each run is escaped first, then wrapped in
// bold, italic, strikethrough, underline and code markup in that order, and
// finally wrapped in an anchor when it carries a link.
func RenderRuns(runs []InlineRun) string {
	if len(runs) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(renderRun(r))
	}
	return sb.String()
}

func renderRun(r InlineRun) string {
	text := EscapeText(r.Text)
	a := r.Annotations

	if a.Bold {
		text = "<strong>" + text + "</strong>"
	}
	if a.Italic {
		text = "<em>" + text + "</em>"
	}
	if a.Strikethrough {
		text = "<del>" + text + "</del>"
	}
	if a.Underline {
		text = "<u>" + text + "</u>"
	}
	if a.Code {
		text = `<code class="bg-zinc-700 px-1 rounded">` + text + `</code>`
	}
	if r.Href != "" && safeHref(r.Href) {
		text = `<a href="` + attr(r.Href) + `" target="_blank" rel="noopener noreferrer" class="text-blue-400 hover:underline">` + text + `</a>`
	}
	return text
}

// safeHref reports whether href may be emitted as a link target: http(s),
// mailto, or a relative reference such as Notion's "/<page id>" mentions.
func safeHref(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "", "http", "https", "mailto":
		return true
	}
	return false
}

// attr escapes a value for use inside a double-quoted attribute.
func attr(s string) string {
	return html.EscapeString(s)
}

func titleOrUntitled(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}
