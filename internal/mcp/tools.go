package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/contentvault/internal/content"
)

var listToolDef = mcp.NewTool("content_list",
	mcp.WithDescription("List saved content items, newest first. Filters match exactly; search matches titles case-insensitively. Returns items plus the distinct filter values present."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("type", mcp.Description("Item type, e.g. Article or Video")),
	mcp.WithString("status", mcp.Description("Triage status"), mcp.Enum(content.KnownStatuses...)),
	mcp.WithString("source", mcp.Description("Item source, e.g. YouTube")),
	mcp.WithString("search", mcp.Description("Case-insensitive title search")),
	mcp.WithString("mode",
		mcp.Description("View: unread (not Done), read (Done), favorites, or all"),
		mcp.Enum("unread", "read", "favorites", "all"),
	),
)

var addToolDef = mcp.NewTool("content_add",
	mcp.WithDescription("Save a new content item. Status defaults to Inbox."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
	mcp.WithString("url", mcp.Required(), mcp.Description("Absolute http(s) URL of the content")),
	mcp.WithString("type", mcp.Description("Item type"), mcp.Enum(content.KnownTypes...)),
	mcp.WithString("source", mcp.Description("Item source"), mcp.Enum(content.KnownSources...)),
	mcp.WithString("status", mcp.Description("Initial status"), mcp.Enum(content.KnownStatuses...)),
	mcp.WithString("notes", mcp.Description("Free-form notes")),
)

var updateToolDef = mcp.NewTool("content_update",
	mcp.WithDescription("Change an item's status or favorite flag. At least one of status or favorite is required."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	mcp.WithString("status", mcp.Description("New status"), mcp.Enum(content.KnownStatuses...)),
	mcp.WithBoolean("favorite", mcp.Description("Favorite flag")),
)

var archiveToolDef = mcp.NewTool("content_archive",
	mcp.WithDescription("Archive an item so it no longer appears in any list."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
)

var previewToolDef = mcp.NewTool("notion_preview",
	mcp.WithDescription("Render a Notion page's top-level blocks. Accepts a notion.so URL, a 32-hex id, or a dashed UUID."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("url", mcp.Required(), mcp.Description("Notion page URL or id")),
	mcp.WithString("format",
		mcp.Description("Output format (default html)"),
		mcp.Enum(formatHTML, formatMarkdown),
	),
)

var markdownToolDef = mcp.NewTool("markdown_fetch",
	mcp.WithDescription("Fetch a markdown file linked from an item. Google Drive share links are rewritten to direct downloads; HTML pages are converted to markdown."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("url", mcp.Required(), mcp.Description("Markdown file URL")),
)

var pageIDToolDef = mcp.NewTool("page_id",
	mcp.WithDescription("Extract the canonical dashed page id from a Notion URL."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("url", mcp.Required(), mcp.Description("Notion page URL or id")),
)
