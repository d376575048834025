package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bookbrowser/internal/browse"
	"bookbrowser/internal/httpx"

	"go.uber.org/zap"
)

type BookHandler struct {
	list   ListController
	detail DetailController
	logger *zap.Logger
}

func NewBookHandler(list ListController, detail DetailController, logger *zap.Logger) *BookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookHandler{list: list, detail: detail, logger: logger}
}

type SearchRequest struct {
	Query string `json:"query" validate:"max=256"`
}

// List handles GET /v1/books?search=. The first call mounts the list view;
// later calls report a navigation to the given query.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	st := h.list.Mount(r.Context(), r.URL.Query().Get("search"))
	h.writeState(w, r, st)
}

// Search handles POST /v1/books/search
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}
	h.writeState(w, r, h.list.Submit(r.Context(), req.Query))
}

// Clear handles POST /v1/books/clear
func (h *BookHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.list.Clear(r.Context()))
}

// LoadMore handles POST /v1/books/more
func (h *BookHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.list.LoadMore(r.Context()))
}

// Get handles GET /v1/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	view := h.detail.Open(r.Context(), r.PathValue("id"))
	if view.Error != "" {
		writeDetailError(w, r, view)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// ToggleFavorite handles POST /v1/books/{id}/favorite
func (h *BookHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	view, err := h.detail.ToggleFavorite(r.Context(), id)
	if err != nil {
		if errors.Is(err, browse.ErrBookUnavailable) {
			writeDetailError(w, r, view)
			return
		}
		h.logger.Warn("error toggling favorite", zap.String("id", id), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Could not update favorites", nil)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// writeState always answers 200: a failed search is a state of the view, and
// the books loaded before the failure are still part of it.
func (h *BookHandler) writeState(w http.ResponseWriter, r *http.Request, st browse.State) {
	httpx.JSONSuccess(w, r, st, map[string]any{
		"count":    len(st.Books),
		"location": locationFor(st.Query),
	})
}

func writeDetailError(w http.ResponseWriter, r *http.Request, view browse.DetailView) {
	if view.NotFound {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusBadGateway, "CATALOG_UNAVAILABLE", browse.DetailFailedMessage, nil)
}
