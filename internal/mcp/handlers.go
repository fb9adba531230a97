package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/contentvault/internal/blocks"
	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/ops"
)

const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	backend  content.Backend
	markdown ops.MarkdownSource
	logger   *logrus.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(backend content.Backend, markdown ops.MarkdownSource, logger *logrus.Logger) *Handlers {
	return &Handlers{backend: backend, markdown: markdown, logger: logger}
}

// Request types for each tool

// ListRequest represents the arguments for content_list.
type ListRequest struct {
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	Source string `json:"source,omitempty"`
	Search string `json:"search,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// UpdateRequest represents the arguments for content_update.
type UpdateRequest struct {
	ID       string  `json:"id"`
	Status   *string `json:"status,omitempty"`
	Favorite *bool   `json:"favorite,omitempty"`
}

// ArchiveRequest represents the arguments for content_archive.
type ArchiveRequest struct {
	ID string `json:"id"`
}

// PreviewRequest represents the arguments for notion_preview.
type PreviewRequest struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

// URLRequest represents the arguments for tools that take a single url.
type URLRequest struct {
	URL string `json:"url"`
}

// MarkdownPreview is the notion_preview result in markdown format.
type MarkdownPreview struct {
	Title    string  `json:"title"`
	Markdown string  `json:"markdown"`
	Icon     *string `json:"icon"`
	Cover    *string `json:"cover"`
}

// Handler implementations

// HandleList handles the content_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.backend, ops.ListInput{
		Type:   input.Type,
		Status: input.Status,
		Source: input.Source,
		Search: input.Search,
		Mode:   input.Mode,
	})
	if err != nil {
		return h.failure(err, "content_list"), nil
	}

	return successResult(result)
}

// HandleAdd handles the content_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ops.AddInput](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(ctx, h.backend, input)
	if err != nil {
		return h.failure(err, "content_add"), nil
	}

	return successResult(result)
}

// HandleUpdate handles the content_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(ctx, h.backend, ops.UpdateInput{
		ID:       input.ID,
		Status:   input.Status,
		Favorite: input.Favorite,
	})
	if err != nil {
		return h.failure(err, "content_update"), nil
	}

	return successResult(result)
}

// HandleArchive handles the content_archive tool call.
func (h *Handlers) HandleArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArchiveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Archive(ctx, h.backend, ops.ArchiveInput{ID: input.ID})
	if err != nil {
		return h.failure(err, "content_archive"), nil
	}

	return successResult(result)
}

// HandlePreview handles the notion_preview tool call.
func (h *Handlers) HandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PreviewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = formatHTML
	}
	if format != formatHTML && format != formatMarkdown {
		return errorResult(errors.NewInvalidRequest("format must be html or markdown")), nil
	}

	result, err := ops.Preview(ctx, h.backend, ops.PreviewInput{URL: input.URL})
	if err != nil {
		return h.failure(err, "notion_preview"), nil
	}

	if format == formatHTML {
		return successResult(result)
	}

	md, err := blocks.RenderMarkdown(result.Blocks)
	if err != nil {
		return h.failure(errors.NewInternal(err), "notion_preview"), nil
	}
	return successResult(MarkdownPreview{
		Title:    result.Title,
		Markdown: md,
		Icon:     result.Icon,
		Cover:    result.Cover,
	})
}

// HandleMarkdown handles the markdown_fetch tool call.
func (h *Handlers) HandleMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if h.markdown == nil {
		return errorResult(errors.NewNotConfigured("Markdown fetching not configured")), nil
	}

	result, err := ops.FetchMarkdown(ctx, h.markdown, ops.MarkdownInput{URL: input.URL})
	if err != nil {
		return h.failure(err, "markdown_fetch"), nil
	}

	return successResult(result)
}

// HandlePageID handles the page_id tool call.
func (h *Handlers) HandlePageID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[URLRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PageID(ops.PageIDInput{URL: input.URL})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// failure logs server-side failures and converts err to an error result.
// MCP mode logs to stderr; stdout carries the protocol.
func (h *Handlers) failure(err error, tool string) *mcp.CallToolResult {
	vErr := errors.As(err)
	if vErr.Status >= 500 && h.logger != nil {
		entry := h.logger.WithFields(logrus.Fields{"tool": tool, "code": vErr.Code})
		if vErr.Err != nil {
			entry = entry.WithError(vErr.Err)
		}
		entry.Error("tool call failed")
	}
	return errorResult(err)
}

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var vErr *errors.VaultError
	if stderrors.As(err, &vErr) && vErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    vErr.Code,
			"message": vErr.Message,
			"status":  vErr.Status,
		}
		if vErr.Details != nil {
			errorObj["details"] = vErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	text, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(text)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
