package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/hpungsan/contentvault/internal/config"
	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/db"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/fetch"
	"github.com/hpungsan/contentvault/internal/notion"
)

// testSetup creates handlers backed by a temporary local database.
func testSetup(t *testing.T) (*Handlers, *db.Store) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := db.NewStore(database)
	logger, _ := test.NewNullLogger()
	return NewHandlers(store, fetch.New(5*time.Second), logger), store
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// seed adds an item through the tool and returns its id.
func seed(t *testing.T, h *Handlers, title, status string) string {
	t.Helper()
	result, err := h.HandleAdd(context.Background(), makeRequest(map[string]any{
		"title":  title,
		"url":    "https://example.com/" + title,
		"status": status,
		"notes":  "about " + title,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	item := parseOutput(t, result)["item"].(map[string]any)
	return item["id"].(string)
}

func TestHandleAdd(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "add valid item",
			args: map[string]any{
				"title": "Valid",
				"url":   "https://example.com/valid",
				"type":  "Article",
			},
		},
		{
			name:      "add without title",
			args:      map[string]any{"url": "https://example.com"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "add with relative url",
			args:      map[string]any{"title": "Rel", "url": "/local/path"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "add with unknown status",
			args:      map[string]any{"title": "S", "url": "https://example.com", "status": "Someday"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "add with wrong argument type",
			args:      map[string]any{"title": 42, "url": "https://example.com"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAdd(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleList(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()
	seed(t, h, "inbox-item", content.StatusInbox)
	seed(t, h, "done-item", content.StatusDone)

	tests := []struct {
		name      string
		args      map[string]any
		wantCount int
	}{
		{"all by default", map[string]any{}, 2},
		{"unread mode", map[string]any{"mode": "unread"}, 1},
		{"read mode", map[string]any{"mode": "read"}, 1},
		{"favorites mode", map[string]any{"mode": "favorites"}, 0},
		{"status filter", map[string]any{"status": content.StatusDone}, 1},
		{"search", map[string]any{"search": "INBOX"}, 1},
		{"status all means unset", map[string]any{"status": "all"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleList(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			output := parseOutput(t, result)
			if got := int(output["count"].(float64)); got != tt.wantCount {
				t.Errorf("count = %d, want %d", got, tt.wantCount)
			}
			if _, ok := output["filters"].(map[string]any); !ok {
				t.Error("expected filters object")
			}
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()
	id := seed(t, h, "update-me", content.StatusInbox)

	result, err := h.HandleUpdate(ctx, makeRequest(map[string]any{
		"id":       id,
		"status":   content.StatusReading,
		"favorite": true,
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	item := parseOutput(t, result)["item"].(map[string]any)
	if item["status"] != content.StatusReading || item["favorite"] != true {
		t.Errorf("item = %v", item)
	}

	result, _ = h.HandleUpdate(ctx, makeRequest(map[string]any{"id": id}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	result, _ = h.HandleUpdate(ctx, makeRequest(map[string]any{"id": "missing", "favorite": false}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleArchive(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()
	id := seed(t, h, "archive-me", content.StatusInbox)

	result, err := h.HandleArchive(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["archived"] != true || output["id"] != id {
		t.Errorf("output = %v", output)
	}

	// Archived items are gone from every view
	list, _ := h.HandleList(ctx, makeRequest(map[string]any{}))
	if got := parseOutput(t, list)["count"].(float64); got != 0 {
		t.Errorf("count = %v, want 0", got)
	}

	result, _ = h.HandleArchive(ctx, makeRequest(map[string]any{"id": id}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandlePreview_LocalFormats(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()
	id := seed(t, h, "preview-me", content.StatusInbox)

	result, err := h.HandlePreview(ctx, makeRequest(map[string]any{"url": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["title"] != "preview-me" {
		t.Errorf("title = %v", output["title"])
	}
	if html, _ := output["html"].(string); !strings.Contains(html, "<p") || !strings.Contains(html, "about preview-me") {
		t.Errorf("html = %q", html)
	}

	result, _ = h.HandlePreview(ctx, makeRequest(map[string]any{"url": id, "format": "markdown"}))
	output = parseOutput(t, result)
	md, _ := output["markdown"].(string)
	if !strings.Contains(md, "about preview-me") || strings.Contains(md, "<p") {
		t.Errorf("markdown = %q", md)
	}
	if _, ok := output["html"]; ok {
		t.Error("markdown format should not include html")
	}
}

func TestHandlePreview_Errors(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]any
		code string
		msg  string
	}{
		{"missing url", map[string]any{}, "INVALID_REQUEST", "URL required"},
		{"invalid url", map[string]any{"url": "https://example.com"}, "INVALID_REQUEST", "Invalid Notion URL"},
		{"bad format", map[string]any{"url": "abcdef0123456789abcdef0123456789", "format": "pdf"}, "INVALID_REQUEST", "format must be html or markdown"},
		{"unknown page", map[string]any{"url": "abcdef0123456789abcdef0123456789"}, "NOT_FOUND", "item not found: abcdef01-2345-6789-abcd-ef0123456789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandlePreview(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			assertErrorCode(t, result, tt.code)
			if got := errorMessage(t, result); got != tt.msg {
				t.Errorf("message = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestHandlePreview_NotionUpstreamFailureLogged(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"object":"error","code":"object_not_found","message":"Could not find page."}`)
	}))
	t.Cleanup(upstream.Close)

	logger, hook := test.NewNullLogger()
	client := notion.New(notion.Options{Token: "secret_test", BaseURL: upstream.URL})
	h := NewHandlers(client, nil, logger)

	result, err := h.HandlePreview(context.Background(), makeRequest(map[string]any{
		"url": "https://www.notion.so/team/Roadmap-abcdef0123456789abcdef0123456789",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "UPSTREAM")
	if got := errorMessage(t, result); got != "Could not find page." {
		t.Errorf("message = %q", got)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel || entry.Data["tool"] != "notion_preview" {
		t.Errorf("log entry = %+v", entry)
	}
}

func TestHandleMarkdown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.md" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, `<html><body><nav>menu</nav><main><h1>Doc</h1><p>Body text</p></main></body></html>`)
	}))
	t.Cleanup(upstream.Close)

	h, _ := testSetup(t)
	ctx := context.Background()

	result, err := h.HandleMarkdown(ctx, makeRequest(map[string]any{"url": upstream.URL + "/doc"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	md, _ := parseOutput(t, result)["content"].(string)
	if !strings.Contains(md, "# Doc") || !strings.Contains(md, "Body text") {
		t.Errorf("content = %q", md)
	}

	result, _ = h.HandleMarkdown(ctx, makeRequest(map[string]any{"url": upstream.URL + "/missing.md"}))
	assertErrorCode(t, result, "UPSTREAM")
	if got := errorMessage(t, result); got != "Failed to fetch markdown content" {
		t.Errorf("message = %q", got)
	}

	result, _ = h.HandleMarkdown(ctx, makeRequest(map[string]any{}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleMarkdown_NotConfigured(t *testing.T) {
	h := NewHandlers(nil, nil, nil)
	result, _ := h.HandleMarkdown(context.Background(), makeRequest(map[string]any{"url": "https://example.com/a.md"}))
	assertErrorCode(t, result, "NOT_CONFIGURED")
}

func TestHandlePageID(t *testing.T) {
	h := NewHandlers(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		url    string
		wantID string
		code   string
	}{
		{"notion url", "https://www.notion.so/My-Page-0123456789abcdef0123456789abcdef", "01234567-89ab-cdef-0123-456789abcdef", ""},
		{"dashed uuid", "01234567-89ab-cdef-0123-456789abcdef", "01234567-89ab-cdef-0123-456789abcdef", ""},
		{"invalid", "https://example.com/page", "", "INVALID_REQUEST"},
		{"empty", "", "", "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandlePageID(ctx, makeRequest(map[string]any{"url": tt.url}))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if tt.code != "" {
				assertErrorCode(t, result, tt.code)
				return
			}
			if got := parseOutput(t, result)["id"]; got != tt.wantID {
				t.Errorf("id = %v, want %s", got, tt.wantID)
			}
		})
	}
}

func TestServerRegistration(t *testing.T) {
	h, store := testSetup(t)

	s := NewServer(store, h.markdown, config.DefaultConfig(), logrus.New(), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"content_list",
		"content_add",
		"content_update",
		"content_archive",
		"notion_preview",
		"markdown_fetch",
		"page_id",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	_, store := testSetup(t)

	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"content_archive", "content_add", "content_add"}
	s := NewServer(store, nil, cfg, logrus.New(), "test")
	tools := s.ListTools()

	if len(tools) != 5 {
		t.Errorf("registered tool count = %d, want 5", len(tools))
	}
	for _, name := range []string{"content_archive", "content_add"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
	if _, ok := tools["content_list"]; !ok {
		t.Error("content_list should be registered")
	}
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisabledTools = AllToolNames()
	s := NewServer(nil, nil, cfg, logrus.New(), "test")

	if tools := s.ListTools(); len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (all disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"content_archive", "page_id"}, 0},
		{"one unknown", []string{"content_archive", "content_delete"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if unknown := ValidateDisabledTools(tt.input); len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 7 {
		t.Errorf("AllToolNames() returned %d names, want 7", len(names))
	}
	if unknown := ValidateDisabledTools(names); len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeMessage(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if strings.Contains(errObj["message"].(string), "secret.db") {
		t.Fatalf("message leaks internal detail: %v", errObj["message"])
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_WrappedError(t *testing.T) {
	r := errorResult(fmt.Errorf("context: %w", errors.NewInvalidRequest("bad input")))

	errObj := errorObject(t, r)
	if errObj["code"] != string(errors.ErrInvalidRequest) {
		t.Errorf("code=%v, want %v", errObj["code"], errors.ErrInvalidRequest)
	}
	if errObj["message"] != "bad input" {
		t.Errorf("message=%v", errObj["message"])
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	errObj := errorObject(t, errorResult(errors.NewNotFound("abc")))

	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
	if errObj["status"] != float64(404) {
		t.Errorf("status=%v, want 404", errObj["status"])
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func errorObject(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in error result")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatal("no error object in payload")
	}
	return errObj
}

func errorMessage(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	msg, _ := errorObject(t, result)["message"].(string)
	return msg
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	if !result.IsError {
		t.Errorf("expected error result, got success: %s", extractErrorMessage(result))
		return
	}
	if code, _ := errorObject(t, result)["code"].(string); code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
