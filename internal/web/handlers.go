package web

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI and JSON API.
type Handlers struct {
	backend  content.Backend
	markdown ops.MarkdownSource
	logger   *logrus.Logger
	renderer *Renderer
}

var navByMode = map[content.Mode]string{
	content.ModeUnread:    "unread",
	content.ModeRead:      "read",
	content.ModeFavorites: "favorites",
	content.ModeAll:       "all",
}

var titleByMode = map[content.Mode]string{
	content.ModeUnread:    "Unread",
	content.ModeRead:      "Read",
	content.ModeFavorites: "Favorites",
	content.ModeAll:       "All content",
}

// listHandler serves one of the list views.
func (h *Handlers) listHandler(mode content.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		selected := content.Filter{
			Type:   q.Get("type"),
			Status: q.Get("status"),
			Source: q.Get("source"),
			Search: q.Get("search"),
		}.Normalize()

		result, err := ops.List(r.Context(), h.backend, ops.ListInput{
			Type:   selected.Type,
			Status: selected.Status,
			Source: selected.Source,
			Search: selected.Search,
			Mode:   string(mode),
		})
		if err != nil {
			h.logFailure(err, "Error fetching content")
			h.renderer.renderError(w, r, err)
			return
		}

		data := ListPageData{
			PageData:      h.renderer.page(titleByMode[mode], navByMode[mode]),
			Mode:          mode,
			Items:         result.Items,
			Filters:       result.Filters,
			Selected:      selected,
			Count:         result.Count,
			ReturnPath:    r.URL.RequestURI(),
			KnownTypes:    content.KnownTypes,
			KnownSources:  content.KnownSources,
			KnownStatuses: content.KnownStatuses,
		}

		// Filter bar requests only swap the item list
		if r.Header.Get("HX-Target") == "items" {
			h.renderer.renderBlock(w, http.StatusOK, "list", "items", data)
			return
		}
		h.renderer.renderPage(w, r, "list", data)
	}
}

// HandlePreview handles GET /vault/preview?url= and renders a Notion page.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	result, err := ops.Preview(r.Context(), h.backend, ops.PreviewInput{URL: raw})
	if err != nil {
		h.logFailure(err, "Error fetching Notion page")
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "preview", PreviewPageData{
		PageData:  h.renderer.page(result.Title, ""),
		Preview:   result,
		Body:      template.HTML(result.HTML),
		SourceURL: raw,
	})
}

// HandleRead handles GET /vault/read?url= and renders a markdown file.
func (h *Handlers) HandleRead(w http.ResponseWriter, r *http.Request) {
	if h.markdown == nil {
		h.renderer.renderError(w, r, errors.NewNotConfigured("Markdown fetching not configured"))
		return
	}
	raw := r.URL.Query().Get("url")
	result, err := ops.FetchMarkdown(r.Context(), h.markdown, ops.MarkdownInput{URL: raw})
	if err != nil {
		h.logFailure(err, "Error fetching markdown")
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "read", ReadPageData{
		PageData:  h.renderer.page("Read", ""),
		SourceURL: raw,
		Body:      renderMarkdown(result.Content),
	})
}

// HandleAdd handles POST /vault/items from the add form.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	_, err := ops.Add(r.Context(), h.backend, ops.AddInput{
		Title:  r.FormValue("title"),
		URL:    r.FormValue("url"),
		Type:   r.FormValue("type"),
		Source: r.FormValue("source"),
		Status: r.FormValue("status"),
		Notes:  r.FormValue("notes"),
	})
	if err != nil {
		h.logFailure(err, "Error adding content")
		h.renderer.renderError(w, r, err)
		return
	}
	h.redirectBack(w, r)
}

// HandleStatus handles POST /vault/items/{id}/status.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	status := r.FormValue("status")

	_, err := ops.Update(r.Context(), h.backend, ops.UpdateInput{
		ID:     r.PathValue("id"),
		Status: &status,
	})
	if err != nil {
		h.logFailure(err, "Error updating content")
		h.renderer.renderError(w, r, err)
		return
	}
	h.redirectBack(w, r)
}

// HandleFavorite handles POST /vault/items/{id}/favorite.
// The form sends the desired value; a missing value means true.
func (h *Handlers) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	favorite := true
	if v := r.FormValue("favorite"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("favorite must be true or false"))
			return
		}
		favorite = b
	}

	_, err := ops.Update(r.Context(), h.backend, ops.UpdateInput{
		ID:       r.PathValue("id"),
		Favorite: &favorite,
	})
	if err != nil {
		h.logFailure(err, "Error updating content")
		h.renderer.renderError(w, r, err)
		return
	}
	h.redirectBack(w, r)
}

// HandleArchive handles POST /vault/items/{id}/archive.
func (h *Handlers) HandleArchive(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if _, err := ops.Archive(r.Context(), h.backend, ops.ArchiveInput{ID: r.PathValue("id")}); err != nil {
		h.logFailure(err, "Error archiving content")
		h.renderer.renderError(w, r, err)
		return
	}
	h.redirectBack(w, r)
}

// redirectBack sends the client to the form's "return" path.
func (h *Handlers) redirectBack(w http.ResponseWriter, r *http.Request) {
	target := returnPath(r.FormValue("return"))

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// returnPath only allows local /vault paths so forms cannot redirect off-site.
func returnPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/vault") {
		return "/vault"
	}
	return u.RequestURI()
}

// logFailure logs server-side failures. Client errors are not logged.
func (h *Handlers) logFailure(err error, msg string) {
	vErr := errors.As(err)
	if vErr.Status < 500 {
		return
	}
	entry := h.logger.WithField("code", vErr.Code)
	if vErr.Err != nil {
		entry = entry.WithError(vErr.Err)
	}
	entry.Error(msg)
}
