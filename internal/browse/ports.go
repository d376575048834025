package browse

import (
	"context"
	"time"

	"bookbrowser/internal/cache"
	"bookbrowser/internal/entity"
	"bookbrowser/internal/platform/googlebooks"
)

//go:generate mockgen -destination=mock_ports_test.go -package=browse . Catalog

// Catalog is the remote book source.
type Catalog interface {
	Search(ctx context.Context, query string, offset int) (googlebooks.SearchResult, error)
	GetByID(ctx context.Context, id string) (entity.Book, error)
}

// SearchCache is the single-slot search cache.
type SearchCache interface {
	ReadSearch(ctx context.Context) (cache.SearchEntry, bool)
	WriteSearch(ctx context.Context, e cache.SearchEntry)
	Fresh(fetchedAt time.Time) bool
	Now() time.Time
}

// DetailCache holds recently fetched book details.
type DetailCache interface {
	ReadDetail(ctx context.Context, id string) (entity.Book, bool)
	WriteDetail(ctx context.Context, id string, book entity.Book)
}

// Favorites is the persisted favorites registry.
type Favorites interface {
	Contains(ctx context.Context, id string) bool
	Add(ctx context.Context, book entity.Book) error
	Remove(ctx context.Context, id string) error
}
