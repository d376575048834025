package favorites

import (
	"context"
	"testing"

	"bookbrowser/internal/entity"
	"bookbrowser/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(books []entity.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestRegistry_Add(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemoryStore(), nil)

	assert.Empty(t, r.List(ctx))
	assert.False(t, r.Contains(ctx, "a"))

	require.NoError(t, r.Add(ctx, entity.Book{ID: "a", Title: "A"}))
	require.NoError(t, r.Add(ctx, entity.Book{ID: "b", Title: "B"}))
	require.NoError(t, r.Add(ctx, entity.Book{ID: "a", Title: "A again"}))

	got := r.List(ctx)
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "A", got[0].Title)
	assert.True(t, r.Contains(ctx, "a"))
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemoryStore(), nil)
	require.NoError(t, r.Add(ctx, entity.Book{ID: "a"}))
	require.NoError(t, r.Add(ctx, entity.Book{ID: "b"}))

	require.NoError(t, r.Remove(ctx, "a"))
	assert.Equal(t, []string{"b"}, ids(r.List(ctx)))

	require.NoError(t, r.Remove(ctx, "a"))
	assert.Equal(t, []string{"b"}, ids(r.List(ctx)))
}

func TestRegistry_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	require.NoError(t, NewRegistry(kv, nil).Add(ctx, entity.Book{ID: "a"}))

	assert.True(t, NewRegistry(kv, nil).Contains(ctx, "a"))
}

func TestRegistry_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, store.KeyFavorites, []byte("not json")))
	r := NewRegistry(kv, nil)

	assert.Empty(t, r.List(ctx))
	assert.False(t, r.Contains(ctx, "a"))
	assert.Error(t, r.Add(ctx, entity.Book{ID: "a"}))
	assert.Error(t, r.Remove(ctx, "a"))

	raw, err := kv.Get(ctx, store.KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(raw))
}

func TestRegistry_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(store.NewMemoryStore(store.WithQuota(40)), nil)

	err := r.Add(ctx, entity.Book{ID: "a", Title: "A title far too long for the quota"})
	assert.ErrorIs(t, err, store.ErrQuotaExceeded)
	assert.Empty(t, r.List(ctx))
}
