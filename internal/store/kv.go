// Package store provides the durable key-value storage the browser state
// lives in. Values are opaque bytes; callers serialize them.
package store

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyLoggedIn    = "isLoggedIn"
	KeyFavorites   = "favorites"
	KeySearchCache = "cachedBooks"
	KeyDetailCache = "cachedBookDetails"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned by Set when the store is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store is a flat string-keyed byte store. Writes replace the whole value;
// there is no locking across processes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s if it supports it.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
