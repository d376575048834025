// Package browse drives the search list and book detail views. Each view is a
// small state machine fed by navigation and user events; remote calls go
// through Catalog and results are kept in the local caches.
package browse

import (
	"context"
	"errors"
	"strings"
	"sync"

	"bookbrowser/internal/cache"
	"bookbrowser/internal/entity"
	"bookbrowser/internal/platform/googlebooks"

	"go.uber.org/zap"
)

// Phase of the list view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// State is a snapshot of the list view.
type State struct {
	Query     string        `json:"query"`
	Offset    int           `json:"offset"`
	Books     []entity.Book `json:"books"`
	Loading   bool          `json:"loading"`
	Phase     Phase         `json:"phase"`
	Error     string        `json:"error,omitempty"`
	FromCache bool          `json:"from_cache"`
}

// List is the search/list controller. A single instance backs the one view
// the process serves.
type List struct {
	catalog Catalog
	cache   SearchCache
	logger  *zap.Logger

	mu      sync.Mutex
	state   State
	seq     uint64
	mounted bool
	lastNav string

	// loaded is the query state.Books were fetched for; state.Query moves
	// ahead of it while a search is in flight or after one fails.
	loaded string
}

func NewList(catalog Catalog, sc SearchCache, logger *zap.Logger) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &List{
		catalog: catalog,
		cache:   sc,
		logger:  logger,
		state:   State{Books: []entity.Book{}},
	}
}

// Mount handles the first display of the view. A fresh cached search for the
// navigation query (or any cached search when navQuery is empty) is restored
// as is, pagination included; otherwise navQuery is fetched from offset 0.
// Later calls behave like NavigationChanged.
func (l *List) Mount(ctx context.Context, navQuery string) State {
	navQuery = strings.TrimSpace(navQuery)

	l.mu.Lock()
	if l.mounted {
		l.mu.Unlock()
		return l.NavigationChanged(ctx, navQuery)
	}
	l.mounted = true
	l.lastNav = navQuery

	if e, ok := l.cache.ReadSearch(ctx); ok && (navQuery == "" || e.Query == navQuery) && l.cache.Fresh(e.FetchedAt) {
		l.restoreLocked(e)
		defer l.mu.Unlock()
		return l.snapshotLocked()
	}
	l.mu.Unlock()

	return l.search(ctx, navQuery, 0)
}

// Submit starts a new search. Blank queries are ignored.
func (l *List) Submit(ctx context.Context, query string) State {
	query = strings.TrimSpace(query)
	if query == "" {
		return l.Snapshot()
	}

	l.mu.Lock()
	l.mounted = true
	l.lastNav = query
	l.mu.Unlock()

	return l.search(ctx, query, 0)
}

// Clear resets the query and loads the default listing.
func (l *List) Clear(ctx context.Context) State {
	l.mu.Lock()
	l.mounted = true
	l.lastNav = ""
	l.mu.Unlock()

	return l.search(ctx, "", 0)
}

// LoadMore fetches the next page of the query the shown books belong to and
// appends it. It is ignored while a fetch is in flight or before anything is
// loaded. After a failed search the view falls back to the loaded query.
func (l *List) LoadMore(ctx context.Context) State {
	l.mu.Lock()
	if l.state.Loading || len(l.state.Books) == 0 {
		defer l.mu.Unlock()
		return l.snapshotLocked()
	}
	query := l.loaded
	offset := l.state.Offset + googlebooks.PageSize
	seq := l.beginLocked(query)
	l.mu.Unlock()

	return l.fetch(ctx, seq, query, offset)
}

// NavigationChanged reacts to the query carried by the current location. It
// only acts when the query differs from the last one seen.
func (l *List) NavigationChanged(ctx context.Context, query string) State {
	query = strings.TrimSpace(query)

	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		return l.Mount(ctx, query)
	}
	if query == l.lastNav {
		defer l.mu.Unlock()
		return l.snapshotLocked()
	}
	l.lastNav = query
	current := l.state.Query
	l.mu.Unlock()

	if query != "" || current == "" {
		return l.search(ctx, query, 0)
	}
	return l.Snapshot()
}

// Snapshot returns a copy of the current state.
func (l *List) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// search runs an offset-0 search, served from the cache slot when it holds a
// fresh first page for the same query.
func (l *List) search(ctx context.Context, query string, offset int) State {
	l.mu.Lock()
	if offset == 0 {
		if e, ok := l.cache.ReadSearch(ctx); ok && e.Query == query && e.Offset == 0 && l.cache.Fresh(e.FetchedAt) {
			// anything still in flight is now stale
			l.seq++
			l.restoreLocked(e)
			defer l.mu.Unlock()
			return l.snapshotLocked()
		}
	}
	seq := l.beginLocked(query)
	l.mu.Unlock()

	return l.fetch(ctx, seq, query, offset)
}

func (l *List) beginLocked(query string) uint64 {
	l.seq++
	l.state.Query = query
	l.state.Loading = true
	l.state.Phase = PhaseSearching
	l.state.Error = ""
	l.state.FromCache = false
	return l.seq
}

// fetch calls the catalog outside the lock and applies the result only if no
// newer fetch was issued meanwhile.
func (l *List) fetch(ctx context.Context, seq uint64, query string, offset int) State {
	res, err := l.catalog.Search(ctx, query, offset)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		l.logger.Debug("discarding stale search response",
			zap.String("query", query), zap.Int("offset", offset), zap.Uint64("seq", seq))
		return l.snapshotLocked()
	}

	l.state.Loading = false
	if err != nil {
		l.logger.Warn("error fetching books",
			zap.String("query", query), zap.Int("offset", offset), zap.Error(err))
		l.state.Phase = PhaseFailed
		l.state.Error = searchErrorMessage(err)
		return l.snapshotLocked()
	}

	books := res.Items
	if offset > 0 {
		books = make([]entity.Book, 0, len(l.state.Books)+len(res.Items))
		books = append(books, l.state.Books...)
		books = append(books, res.Items...)
	}
	if books == nil {
		books = []entity.Book{}
	}
	l.state.Books = books
	l.state.Offset = offset
	l.state.Phase = PhaseLoaded
	l.loaded = query

	l.cache.WriteSearch(ctx, cache.SearchEntry{
		Query:     query,
		Offset:    offset,
		Books:     books,
		FetchedAt: l.cache.Now(),
	})
	return l.snapshotLocked()
}

func (l *List) restoreLocked(e cache.SearchEntry) {
	l.loaded = e.Query
	l.state = State{
		Query:     e.Query,
		Offset:    e.Offset,
		Books:     e.Books,
		Phase:     PhaseLoaded,
		FromCache: true,
	}
}

func (l *List) snapshotLocked() State {
	s := l.state
	s.Books = make([]entity.Book, len(l.state.Books))
	copy(s.Books, l.state.Books)
	return s
}

func searchErrorMessage(err error) string {
	var re *googlebooks.RemoteError
	if errors.As(err, &re) {
		return re.UserMessage()
	}
	return googlebooks.SearchFailedMessage
}
