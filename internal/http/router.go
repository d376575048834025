package http

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"bookbrowser/internal/httpx"
	"bookbrowser/internal/store"

	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 1 << 20

type RouterConfig struct {
	Auth      AuthService
	List      ListController
	Detail    DetailController
	Favorites FavoritesRegistry
	Storage   store.Store

	AllowedOrigins []string
	EnableHSTS     bool
	MaxBodyBytes   int64
	RateLimiter    *httpx.RateLimitMiddleware // nil disables rate limiting
	Logger         *zap.Logger
}

// NewRouter wires the /v1 API. Everything under /v1 except login requires a
// bearer token from a current login.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	authHandler := NewAuthHandler(cfg.Auth)
	bookHandler := NewBookHandler(cfg.List, cfg.Detail, logger)
	favoritesHandler := NewFavoritesHandler(cfg.Favorites, logger)
	protect := httpx.AuthMiddleware(cfg.Auth)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := store.Ping(ctx, cfg.Storage); err != nil {
			logger.Warn("storage not ready", zap.Error(err))
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /v1/auth/login", authHandler.Login)
	router.Handle("POST /v1/auth/logout", protect(http.HandlerFunc(authHandler.Logout)))

	router.Handle("GET /v1/books", protect(http.HandlerFunc(bookHandler.List)))
	router.Handle("POST /v1/books/search", protect(http.HandlerFunc(bookHandler.Search)))
	router.Handle("POST /v1/books/clear", protect(http.HandlerFunc(bookHandler.Clear)))
	router.Handle("POST /v1/books/more", protect(http.HandlerFunc(bookHandler.LoadMore)))
	router.Handle("GET /v1/books/{id}", protect(http.HandlerFunc(bookHandler.Get)))
	router.Handle("POST /v1/books/{id}/favorite", protect(http.HandlerFunc(bookHandler.ToggleFavorite)))

	router.Handle("GET /v1/favorites", protect(http.HandlerFunc(favoritesHandler.List)))
	router.Handle("DELETE /v1/favorites/{id}", protect(http.HandlerFunc(favoritesHandler.Remove)))

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(maxBody),
	}
	if cfg.RateLimiter != nil {
		middlewares = append(middlewares, cfg.RateLimiter.Middleware)
	}
	return httpx.Chain(router, middlewares...)
}

// locationFor is the navigation location that shows query.
func locationFor(query string) string {
	if query == "" {
		return "/v1/books"
	}
	return "/v1/books?" + url.Values{"search": {query}}.Encode()
}
