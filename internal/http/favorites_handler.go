package http

import (
	"net/http"

	"bookbrowser/internal/httpx"

	"go.uber.org/zap"
)

type FavoritesHandler struct {
	favorites FavoritesRegistry
	logger    *zap.Logger
}

func NewFavoritesHandler(favorites FavoritesRegistry, logger *zap.Logger) *FavoritesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoritesHandler{favorites: favorites, logger: logger}
}

// List handles GET /v1/favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	books := h.favorites.List(r.Context())
	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}

// Remove handles DELETE /v1/favorites/{id}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.favorites.Remove(r.Context(), id); err != nil {
		h.logger.Warn("error removing favorite", zap.String("id", id), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Could not update favorites", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
