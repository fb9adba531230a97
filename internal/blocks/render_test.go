package blocks

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			name:  "paragraph",
			block: Text(KindParagraph, Plain("hello")),
			want:  `<p class="mb-3">hello</p>`,
		},
		{
			name:  "empty paragraph placeholder",
			block: Text(KindParagraph),
			want:  `<p class="mb-3">&nbsp;</p>`,
		},
		{
			name:  "paragraph with empty run text",
			block: Text(KindParagraph, Plain("")),
			want:  `<p class="mb-3">&nbsp;</p>`,
		},
		{
			name:  "heading 1",
			block: Text(KindHeading1, Plain("Title")),
			want:  `<h1 class="text-2xl font-bold mb-4 mt-6">Title</h1>`,
		},
		{
			name:  "heading 2",
			block: Text(KindHeading2, Plain("Sub")),
			want:  `<h2 class="text-xl font-bold mb-3 mt-5">Sub</h2>`,
		},
		{
			name:  "heading 3",
			block: Text(KindHeading3, Plain("Minor")),
			want:  `<h3 class="text-lg font-bold mb-2 mt-4">Minor</h3>`,
		},
		{
			name:  "bulleted item",
			block: Text(KindBulletedListItem, Plain("one")),
			want:  `<li class="ml-4 mb-1">• one</li>`,
		},
		{
			name:  "numbered item is not numbered",
			block: Text(KindNumberedListItem, Plain("first")),
			want:  `<li class="ml-4 mb-1">first</li>`,
		},
		{
			name:  "to-do unchecked",
			block: Text(KindToDo, Plain("task")),
			want:  `<div class="mb-1">☐ task</div>`,
		},
		{
			name:  "to-do checked",
			block: Block{Kind: KindToDo, Runs: []InlineRun{Plain("done")}, Checked: true},
			want:  `<div class="mb-1">☑ done</div>`,
		},
		{
			name:  "toggle drops children",
			block: Block{Kind: KindToggle, Runs: []InlineRun{Plain("more")}, HasChildren: true},
			want:  `<details class="mb-2"><summary class="cursor-pointer">more</summary></details>`,
		},
		{
			name:  "quote",
			block: Text(KindQuote, Plain("said")),
			want:  `<blockquote class="border-l-4 border-zinc-600 pl-4 italic my-3">said</blockquote>`,
		},
		{
			name:  "callout default icon",
			block: Text(KindCallout, Plain("note")),
			want:  `<div class="bg-zinc-800 rounded p-3 mb-3 flex gap-2"><span>💡</span><span>note</span></div>`,
		},
		{
			name:  "callout custom icon",
			block: Block{Kind: KindCallout, Icon: "⚠️", Runs: []InlineRun{Plain("careful")}},
			want:  `<div class="bg-zinc-800 rounded p-3 mb-3 flex gap-2"><span>⚠️</span><span>careful</span></div>`,
		},
		{
			name:  "code escapes content",
			block: Text(KindCode, Plain("if a < b && c > d {}")),
			want:  `<pre class="bg-zinc-800 rounded p-3 mb-3 overflow-x-auto text-sm"><code>if a &lt; b &amp;&amp; c &gt; d {}</code></pre>`,
		},
		{
			name:  "divider",
			block: Block{Kind: KindDivider},
			want:  `<hr class="border-zinc-700 my-4" />`,
		},
		{
			name:  "image prefers file url",
			block: Block{Kind: KindImage, FileURL: "https://files/a.png", ExternalURL: "https://ext/b.png"},
			want:  `<img src="https://files/a.png" alt="" class="max-w-full rounded mb-3" />`,
		},
		{
			name:  "image external url",
			block: Block{Kind: KindImage, ExternalURL: "https://ext/b.png"},
			want:  `<img src="https://ext/b.png" alt="" class="max-w-full rounded mb-3" />`,
		},
		{
			name:  "image without url",
			block: Block{Kind: KindImage},
			want:  "",
		},
		{
			name:  "bookmark",
			block: Block{Kind: KindBookmark, URL: "https://example.com"},
			want:  `<a href="https://example.com" target="_blank" rel="noopener noreferrer" class="text-blue-400 hover:underline block mb-2">https://example.com</a>`,
		},
		{
			name:  "link preview",
			block: Block{Kind: KindLinkPreview, URL: "https://example.com/x"},
			want:  `<a href="https://example.com/x" target="_blank" rel="noopener noreferrer" class="text-blue-400 hover:underline block mb-2">https://example.com/x</a>`,
		},
		{
			name:  "child database",
			block: Block{Kind: KindChildDatabase, Title: "Reading list"},
			want:  `<div class="bg-zinc-800 rounded p-3 mb-3 text-zinc-400">📊 Database: Reading list</div>`,
		},
		{
			name:  "child page untitled",
			block: Block{Kind: KindChildPage},
			want:  `<div class="bg-zinc-800 rounded p-3 mb-3 text-zinc-400">📄 Page: Untitled</div>`,
		},
		{
			name:  "unknown kind",
			block: Block{Kind: KindUnknown, Type: "synced_block"},
			want:  "",
		},
		{
			name:  "zero block",
			block: Block{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderBlock(tt.block)
			if got != tt.want {
				t.Errorf("RenderBlock() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestRenderRuns_Empty(t *testing.T) {
	if got := RenderRuns(nil); got != "" {
		t.Errorf("RenderRuns(nil) = %q, want empty", got)
	}
	if got := RenderRuns([]InlineRun{}); got != "" {
		t.Errorf("RenderRuns([]) = %q, want empty", got)
	}
}

func TestRenderRuns_EscapesBeforeWrapping(t *testing.T) {
	runs := []InlineRun{{Text: "<b> & </b>", Annotations: Annotations{Bold: true, Code: true}}}
	got := RenderRuns(runs)
	want := `<code class="bg-zinc-700 px-1 rounded"><strong>&lt;b&gt; &amp; &lt;/b&gt;</strong></code>`
	if got != want {
		t.Errorf("RenderRuns() = %q, want %q", got, want)
	}
}

func TestRenderRuns_AllAnnotationsOrder(t *testing.T) {
	runs := []InlineRun{{
		Text: "x",
		Annotations: Annotations{
			Bold: true, Italic: true, Strikethrough: true, Underline: true, Code: true,
		},
		Href: "https://example.com",
	}}
	got := RenderRuns(runs)
	want := `<a href="https://example.com" target="_blank" rel="noopener noreferrer" class="text-blue-400 hover:underline">` +
		`<code class="bg-zinc-700 px-1 rounded"><u><del><em><strong>x</strong></em></del></u></code></a>`
	if got != want {
		t.Errorf("RenderRuns() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestRenderRuns_NestingStructure(t *testing.T) {
	runs := []InlineRun{{
		Text:        "Read <this>",
		Annotations: Annotations{Bold: true, Italic: true},
		Href:        "https://example.com/?a=1&b=2",
	}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(RenderRuns(runs)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	anchor := doc.Find("body > a")
	if anchor.Length() != 1 {
		t.Fatalf("expected one outermost anchor, got %d", anchor.Length())
	}
	if href, _ := anchor.Attr("href"); href != "https://example.com/?a=1&b=2" {
		t.Errorf("href = %q", href)
	}
	if target, _ := anchor.Attr("target"); target != "_blank" {
		t.Errorf("target = %q, want _blank", target)
	}

	strong := anchor.Find("em > strong")
	if strong.Length() != 1 {
		t.Fatalf("expected a > em > strong nesting")
	}
	if got := strong.Text(); got != "Read <this>" {
		t.Errorf("text = %q", got)
	}
}

func TestRenderRuns_Concatenates(t *testing.T) {
	runs := []InlineRun{
		Plain("Hello, "),
		{Text: "world", Annotations: Annotations{Italic: true}},
		Plain("!"),
	}
	if got := RenderRuns(runs); got != "Hello, <em>world</em>!" {
		t.Errorf("RenderRuns() = %q", got)
	}
}

func TestRenderBlock_AttributeEscaping(t *testing.T) {
	raw := `https://x/"onmouseover="alert(1)`
	got := RenderBlock(Block{Kind: KindBookmark, URL: raw})

	if !strings.Contains(got, `href="https://x/&#34;onmouseover=&#34;alert(1)"`) {
		t.Errorf("href not escaped: %s", got)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := doc.Find("a")
	if a.Length() != 1 {
		t.Fatalf("anchors = %d, want 1", a.Length())
	}
	if _, ok := a.Attr("onmouseover"); ok {
		t.Error("href value broke out into an onmouseover attribute")
	}
	if href, _ := a.Attr("href"); href != raw {
		t.Errorf("href = %q, want %q", href, raw)
	}
	if a.Text() != raw {
		t.Errorf("text = %q, want %q", a.Text(), raw)
	}
}

func TestRenderLinks_UnsafeSchemes(t *testing.T) {
	tests := []struct {
		name string
		href string
		safe bool
	}{
		{"https", "https://example.com", true},
		{"http", "http://example.com", true},
		{"mailto", "mailto:a@example.com", true},
		{"relative page mention", "/abcdef0123456789abcdef0123456789", true},
		{"javascript", "javascript:alert(1)", false},
		{"javascript upper case", "JavaScript:alert(1)", false},
		{"javascript with leading space", "  javascript:alert(1)", false},
		{"data", "data:text/html,<script>alert(1)</script>", false},
		{"vbscript", "vbscript:msgbox(1)", false},
		{"control character", "java\tscript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := RenderRuns([]InlineRun{{Text: "x", Href: tt.href}})
			if hasAnchor := strings.Contains(run, "<a "); hasAnchor != tt.safe {
				t.Errorf("RenderRuns() = %q, anchor = %v, want %v", run, hasAnchor, tt.safe)
			}
			if !tt.safe && run != "x" {
				t.Errorf("RenderRuns() = %q, want plain text", run)
			}

			bookmark := RenderBlock(Block{Kind: KindBookmark, URL: tt.href})
			if (bookmark != "") != tt.safe {
				t.Errorf("bookmark = %q, want rendered = %v", bookmark, tt.safe)
			}
		})
	}
}

func TestRenderHTML_EndToEnd(t *testing.T) {
	input := []Block{
		Text(KindHeading1, Plain("Title")),
		Text(KindParagraph, InlineRun{Text: "Hello & welcome", Annotations: Annotations{Bold: true}}),
		{Kind: KindDivider},
		{Kind: KindImage, ExternalURL: "https://x/y.png"},
	}

	got := RenderHTML(input)
	want := `<h1 class="text-2xl font-bold mb-4 mt-6">Title</h1>` +
		`<p class="mb-3"><strong>Hello &amp; welcome</strong></p>` +
		`<hr class="border-zinc-700 my-4" />` +
		`<img src="https://x/y.png" alt="" class="max-w-full rounded mb-3" />`
	if got != want {
		t.Errorf("RenderHTML() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestRenderHTML_UnknownBlocksContributeNothing(t *testing.T) {
	input := []Block{
		Text(KindParagraph, Plain("a")),
		{Kind: KindUnknown, Type: "table"},
		Text(KindParagraph, Plain("b")),
	}
	got := RenderHTML(input)
	if got != `<p class="mb-3">a</p><p class="mb-3">b</p>` {
		t.Errorf("RenderHTML() = %q", got)
	}
}

func TestRenderHTML_Empty(t *testing.T) {
	if got := RenderHTML(nil); got != "" {
		t.Errorf("RenderHTML(nil) = %q", got)
	}
}
