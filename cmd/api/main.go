package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bookbrowser/internal/auth"
	"bookbrowser/internal/browse"
	"bookbrowser/internal/cache"
	"bookbrowser/internal/config"
	"bookbrowser/internal/favorites"
	apphttp "bookbrowser/internal/http"
	"bookbrowser/internal/httpx"
	"bookbrowser/internal/platform/googlebooks"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	catalog := googlebooks.NewClient(cfg.CatalogUserAgent, cfg.CatalogRPS,
		googlebooks.WithBaseURL(cfg.CatalogBaseURL),
		googlebooks.WithHTTPClient(&http.Client{Timeout: cfg.CatalogTimeout}),
		googlebooks.WithLogger(logger.Named("catalog")),
	)
	bookCache := cache.New(kv, cache.WithLogger(logger.Named("cache")))
	favs := favorites.NewRegistry(kv, logger.Named("favorites"))

	authService, err := auth.NewService(kv, auth.Config{
		Secret:       cfg.JWTSecret,
		Username:     cfg.AuthUsername,
		PasswordHash: cfg.AuthPasswordHash,
		TokenTTL:     cfg.TokenTTL,
	}, logger.Named("auth"))
	if err != nil {
		return err
	}
	if cfg.AuthPasswordHash == "" {
		logger.Warn("AUTH_PASSWORD_HASH not set; using the default password")
	}

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Auth:           authService,
		List:           browse.NewList(catalog, bookCache, logger.Named("list")),
		Detail:         browse.NewDetail(catalog, bookCache, favs, logger.Named("detail")),
		Favorites:      favs,
		Storage:        kv,
		AllowedOrigins: cfg.AllowedOrigins,
		EnableHSTS:     cfg.EnableHSTS,
		RateLimiter:    httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:         logger.Named("http"),
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.CatalogTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.Addr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}
