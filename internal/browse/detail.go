package browse

import (
	"context"
	"errors"

	"bookbrowser/internal/entity"
	"bookbrowser/internal/platform/googlebooks"

	"go.uber.org/zap"
)

// DetailFailedMessage is shown when a book cannot be loaded, whatever the cause.
const DetailFailedMessage = "Failed to load book details"

// ErrBookUnavailable is returned when a favorite toggle targets a book that
// could not be loaded.
var ErrBookUnavailable = errors.New("book unavailable")

// DetailView is the rendered state of one book page.
type DetailView struct {
	ID         string       `json:"id"`
	Book       *entity.Book `json:"book,omitempty"`
	IsFavorite bool         `json:"is_favorite"`
	FromCache  bool         `json:"from_cache"`
	NotFound   bool         `json:"not_found,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// Detail is the book detail controller.
type Detail struct {
	catalog   Catalog
	cache     DetailCache
	favorites Favorites
	logger    *zap.Logger
}

func NewDetail(catalog Catalog, dc DetailCache, favs Favorites, logger *zap.Logger) *Detail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detail{catalog: catalog, cache: dc, favorites: favs, logger: logger}
}

// Open loads book id, from the detail cache when a fresh copy exists.
func (d *Detail) Open(ctx context.Context, id string) DetailView {
	view := DetailView{ID: id, IsFavorite: d.favorites.Contains(ctx, id)}

	if book, ok := d.cache.ReadDetail(ctx, id); ok {
		view.Book = &book
		view.FromCache = true
		return view
	}

	book, err := d.catalog.GetByID(ctx, id)
	if err != nil {
		d.logger.Warn("error fetching book details", zap.String("id", id), zap.Error(err))
		view.Error = DetailFailedMessage
		view.NotFound = googlebooks.IsNotFound(err)
		return view
	}

	d.cache.WriteDetail(ctx, id, book)
	view.Book = &book
	return view
}

// ToggleFavorite adds or removes book id from the favorites and returns the
// updated view.
func (d *Detail) ToggleFavorite(ctx context.Context, id string) (DetailView, error) {
	view := d.Open(ctx, id)
	if view.Book == nil {
		return view, ErrBookUnavailable
	}

	if view.IsFavorite {
		if err := d.favorites.Remove(ctx, id); err != nil {
			return view, err
		}
	} else {
		if err := d.favorites.Add(ctx, *view.Book); err != nil {
			return view, err
		}
	}
	view.IsFavorite = !view.IsFavorite
	return view, nil
}
