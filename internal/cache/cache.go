// Package cache holds the time-boxed search and detail caches on top of the
// durable key-value store. The cache is always optional: a storage or decoding
// failure is logged and turns into a miss on read and a no-op on write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"bookbrowser/internal/entity"
	"bookbrowser/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultTTL = time.Hour

	// MaxDetailEntries bounds the detail map.
	MaxDetailEntries = 20
)

// SearchEntry is the single search slot: the books shown for Query after
// paging up to Offset. FetchedAt is persisted in Unix milliseconds, so it
// reads back truncated to the millisecond.
type SearchEntry struct {
	Query     string
	Offset    int
	Books     []entity.Book
	FetchedAt time.Time
}

type searchRecord struct {
	Books     []entity.Book `json:"books"`
	Query     string        `json:"query"`
	Index     int           `json:"index"`
	Timestamp int64         `json:"timestamp"`
}

type detailRecord struct {
	Book      entity.Book `json:"book"`
	Timestamp int64       `json:"timestamp"`
}

type Store struct {
	kv         store.Store
	logger     *zap.Logger
	now        func() time.Time
	ttl        time.Duration
	maxDetails int

	// serializes read-modify-write of the detail map within this process
	mu sync.Mutex
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithMaxDetails(n int) Option {
	return func(s *Store) { s.maxDetails = n }
}

func New(kv store.Store, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		logger:     zap.NewNop(),
		now:        time.Now,
		ttl:        DefaultTTL,
		maxDetails: MaxDetailEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsFresh reports whether now - fetchedAt < ttl.
func IsFresh(now, fetchedAt time.Time, ttl time.Duration) bool {
	return now.Sub(fetchedAt) < ttl
}

// IsFresh checks fetchedAt against the store clock.
func (s *Store) IsFresh(fetchedAt time.Time, ttl time.Duration) bool {
	return IsFresh(s.now(), fetchedAt, ttl)
}

// Fresh checks fetchedAt against the store clock and configured TTL.
func (s *Store) Fresh(fetchedAt time.Time) bool {
	return s.IsFresh(fetchedAt, s.ttl)
}

// Now returns the store clock reading at the millisecond precision entries are
// persisted with.
func (s *Store) Now() time.Time { return s.now().Truncate(time.Millisecond) }

// ReadSearch returns the search slot without judging its age.
func (s *Store) ReadSearch(ctx context.Context) (SearchEntry, bool) {
	data, err := s.kv.Get(ctx, store.KeySearchCache)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("error loading cached books", zap.Error(err))
		}
		return SearchEntry{}, false
	}

	var rec searchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("cached books are corrupt", zap.Error(err))
		return SearchEntry{}, false
	}
	if rec.Books == nil {
		rec.Books = []entity.Book{}
	}

	return SearchEntry{
		Query:     rec.Query,
		Offset:    rec.Index,
		Books:     rec.Books,
		FetchedAt: time.UnixMilli(rec.Timestamp),
	}, true
}

// WriteSearch overwrites the search slot. A zero FetchedAt is stamped with the
// store clock.
func (s *Store) WriteSearch(ctx context.Context, e SearchEntry) {
	fetchedAt := e.FetchedAt.Truncate(time.Millisecond)
	if fetchedAt.IsZero() {
		fetchedAt = s.Now()
	}
	books := e.Books
	if books == nil {
		books = []entity.Book{}
	}

	data, err := json.Marshal(searchRecord{
		Books:     books,
		Query:     e.Query,
		Index:     e.Offset,
		Timestamp: fetchedAt.UnixMilli(),
	})
	if err != nil {
		s.logger.Warn("error caching books", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, store.KeySearchCache, data); err != nil {
		s.logger.Warn("error caching books", zap.String("query", e.Query), zap.Error(err))
	}
}

// ReadDetail returns a fresh cached book. Reads do not refresh recency.
func (s *Store) ReadDetail(ctx context.Context, id string) (entity.Book, bool) {
	details, ok := s.readDetails(ctx)
	if !ok {
		return entity.Book{}, false
	}
	rec, found := details[id]
	if !found || !s.Fresh(time.UnixMilli(rec.Timestamp)) {
		return entity.Book{}, false
	}
	return rec.Book, true
}

// WriteDetail stores book under id stamped with the current time, then evicts
// the entries with the oldest timestamps until the map fits. Ties between equal
// timestamps are broken in no particular order.
func (s *Store) WriteDetail(ctx context.Context, id string, book entity.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	details, ok := s.readDetails(ctx)
	if !ok {
		details = make(map[string]detailRecord)
	}
	details[id] = detailRecord{Book: book, Timestamp: s.now().UnixMilli()}

	for len(details) > s.maxDetails {
		oldestID := ""
		var oldest int64
		for k, rec := range details {
			if oldestID == "" || rec.Timestamp < oldest {
				oldestID, oldest = k, rec.Timestamp
			}
		}
		delete(details, oldestID)
		s.logger.Debug("evicted cached book", zap.String("id", oldestID))
	}

	data, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("error caching book", zap.String("id", id), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, store.KeyDetailCache, data); err != nil {
		s.logger.Warn("error caching book", zap.String("id", id), zap.Error(err))
	}
}

func (s *Store) readDetails(ctx context.Context) (map[string]detailRecord, bool) {
	data, err := s.kv.Get(ctx, store.KeyDetailCache)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("error loading cached book details", zap.Error(err))
		}
		return nil, false
	}

	var details map[string]detailRecord
	if err := json.Unmarshal(data, &details); err != nil {
		s.logger.Warn("cached book details are corrupt", zap.Error(err))
		return nil, false
	}
	if details == nil {
		details = make(map[string]detailRecord)
	}
	return details, true
}
