package web

import (
	"encoding/json"
	"net/http"

	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/ops"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// APIList handles GET /api/content.
func (h *Handlers) APIList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := ops.List(r.Context(), h.backend, ops.ListInput{
		Type:   q.Get("type"),
		Status: q.Get("status"),
		Source: q.Get("source"),
		Search: q.Get("search"),
		Mode:   q.Get("mode"),
	})
	if err != nil {
		h.logFailure(err, "Error fetching content")
		renderAPIError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// APICreate handles POST /api/content.
func (h *Handlers) APICreate(w http.ResponseWriter, r *http.Request) {
	var input ops.AddInput
	if err := decodeBody(w, r, &input); err != nil {
		renderAPIError(w, err)
		return
	}

	result, err := ops.Add(r.Context(), h.backend, input)
	if err != nil {
		h.logFailure(err, "Error adding content")
		renderAPIError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// APIUpdate handles PATCH /api/content.
func (h *Handlers) APIUpdate(w http.ResponseWriter, r *http.Request) {
	var input ops.UpdateInput
	if err := decodeBody(w, r, &input); err != nil {
		renderAPIError(w, err)
		return
	}

	result, err := ops.Update(r.Context(), h.backend, input)
	if err != nil {
		h.logFailure(err, "Error updating content")
		renderAPIError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// APIArchive handles DELETE /api/content?id=.
func (h *Handlers) APIArchive(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Archive(r.Context(), h.backend, ops.ArchiveInput{ID: r.URL.Query().Get("id")})
	if err != nil {
		h.logFailure(err, "Error archiving content")
		renderAPIError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// APIPreview handles GET /api/notion-preview?url=.
func (h *Handlers) APIPreview(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Preview(r.Context(), h.backend, ops.PreviewInput{URL: r.URL.Query().Get("url")})
	if err != nil {
		h.logFailure(err, "Error fetching Notion page")
		renderAPIError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// APIMarkdown handles GET /api/markdown?url=.
func (h *Handlers) APIMarkdown(w http.ResponseWriter, r *http.Request) {
	if h.markdown == nil {
		renderAPIError(w, errors.NewNotConfigured("Markdown fetching not configured"))
		return
	}
	result, err := ops.FetchMarkdown(r.Context(), h.markdown, ops.MarkdownInput{URL: r.URL.Query().Get("url")})
	if err != nil {
		h.logFailure(err, "Error fetching markdown")
		renderAPIError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.NewInvalidRequest("invalid JSON body")
	}
	return nil
}
