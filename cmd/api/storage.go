package main

import (
	"context"
	"fmt"
	"time"

	"bookbrowser/internal/config"
	"bookbrowser/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStorage builds the configured key-value backend. The returned close
// func releases its connections.
func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory storage; state is lost on restart")
		return store.NewMemoryStore(), func() {}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database (%s): %w", config.RedactDSN(cfg.DBDSN), err)
		}
		logger.Info("database connection OK", zap.String("dsn", config.RedactDSN(cfg.DBDSN)))
		return store.NewKVPG(pool, 2*time.Second), pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("redis connection OK", zap.String("addr", cfg.RedisAddr))
		return store.NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil

	default:
		fs, err := store.NewLocalFileStore(cfg.StorageDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage dir %s: %w", cfg.StorageDir, err)
		}
		logger.Info("using file storage", zap.String("dir", cfg.StorageDir))
		return fs, func() {}, nil
	}
}
