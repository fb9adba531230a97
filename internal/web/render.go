package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title    string
	SiteName string
	Version  string
	Nav      string // active nav item: "unread", "read", "favorites", "all"
}

// ListPageData is the template data for the item list pages.
type ListPageData struct {
	PageData
	Mode     content.Mode
	Items    []content.Item
	Filters  content.FilterOptions
	Selected content.Filter
	Count    int

	// ReturnPath is where item forms redirect after a change.
	ReturnPath string

	KnownTypes    []string
	KnownSources  []string
	KnownStatuses []string
}

// PreviewPageData is the template data for a rendered Notion page.
type PreviewPageData struct {
	PageData
	Preview   *ops.PreviewOutput
	Body      template.HTML
	SourceURL string
}

// ReadPageData is the template data for a rendered markdown file.
type ReadPageData struct {
	PageData
	SourceURL string
	Body      template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	siteName  string
	logger    *logrus.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version, siteName string, logger *logrus.Logger) *Renderer {
	funcMap := template.FuncMap{
		"formatDate": formatDate,
		"deref":      deref,
		"hasValue":   hasValue,
		"host":       host,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"list":    "list.html",
		"preview": "preview.html",
		"read":    "read.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		siteName:  siteName,
		logger:    logger,
	}
}

// page returns PageData for a page titled title.
func (r *Renderer) page(title, nav string) PageData {
	return PageData{
		Title:    title,
		SiteName: r.siteName,
		Version:  r.version,
		Nav:      nav,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock renders a specific named block from a page template.
// Used for partial swaps that target a sub-section of the page.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.logger.Errorf("template %q not found", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.logger.WithError(err).Errorf("template %s/%s execution error", page, block)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	vErr := errors.As(err)
	status := vErr.Status
	message := vErr.Message

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	// JSON request
	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		renderJSON(w, status, map[string]any{"error": message})
		return
	}

	// Full error page
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderAPIError writes {"error": message} with the error's status.
func renderAPIError(w http.ResponseWriter, err error) {
	vErr := errors.As(err)
	renderJSON(w, vErr.Status, map[string]string{"error": vErr.Message})
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is omitted by goldmark's default renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatDate trims an ISO timestamp to its date.
func formatDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// host returns the host part of a URL for display, or the URL itself.
func host(raw string) string {
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "www.")
	if s == "" {
		return raw
	}
	return s
}

// deref dereferences a pointer, returning the zero value if nil.
func deref(v any) any {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return rv.Elem().Interface()
	}
	return v
}

// hasValue checks if a pointer value is non-nil.
func hasValue(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return true
}
