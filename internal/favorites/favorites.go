// Package favorites keeps the user's favorite books in the key-value store as
// one JSON array, de-duplicated by id. There is no TTL and no size bound.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bookbrowser/internal/entity"
	"bookbrowser/internal/store"

	"go.uber.org/zap"
)

type Registry struct {
	kv     store.Store
	logger *zap.Logger

	// every mutation rewrites the whole list; this only orders writers inside
	// one process
	mu sync.Mutex
}

func NewRegistry(kv store.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{kv: kv, logger: logger}
}

// List returns the favorites in insertion order. Unreadable data is logged and
// reported as an empty list.
func (r *Registry) List(ctx context.Context) []entity.Book {
	books, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("error loading favorites", zap.Error(err))
		return []entity.Book{}
	}
	return books
}

func (r *Registry) Contains(ctx context.Context, id string) bool {
	books, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("error loading favorites", zap.Error(err))
		return false
	}
	return indexOf(books, id) >= 0
}

// Add appends book unless its id is already present.
func (r *Registry) Add(ctx context.Context, book entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("error updating favorites", zap.String("id", book.ID), zap.Error(err))
		return err
	}
	if indexOf(books, book.ID) >= 0 {
		return nil
	}
	return r.save(ctx, append(books, book))
}

// Remove drops the entry with id; absent ids are a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("error updating favorites", zap.String("id", id), zap.Error(err))
		return err
	}
	i := indexOf(books, id)
	if i < 0 {
		return nil
	}
	kept := make([]entity.Book, 0, len(books)-1)
	kept = append(kept, books[:i]...)
	kept = append(kept, books[i+1:]...)
	return r.save(ctx, kept)
}

func (r *Registry) load(ctx context.Context) ([]entity.Book, error) {
	data, err := r.kv.Get(ctx, store.KeyFavorites)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []entity.Book{}, nil
		}
		return nil, err
	}

	var books []entity.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	if books == nil {
		books = []entity.Book{}
	}
	return books, nil
}

func (r *Registry) save(ctx context.Context, books []entity.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := r.kv.Set(ctx, store.KeyFavorites, data); err != nil {
		r.logger.Warn("error saving favorites", zap.Int("count", len(books)), zap.Error(err))
		return err
	}
	return nil
}

func indexOf(books []entity.Book, id string) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
