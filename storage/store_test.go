package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func exerciseStore(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	fallback := []doc{{ID: -1}}
	found, err := s.Load(ctx, KeyProducts, &fallback)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, []doc{{ID: -1}}, fallback, "missing key must leave the default alone")

	require.NoError(t, s.Save(ctx, KeyProducts, []doc{{ID: 1, Name: "Cola"}, {ID: 2, Name: "Chips"}}))
	var got []doc
	found, err = s.Load(ctx, KeyProducts, &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []doc{{ID: 1, Name: "Cola"}, {ID: 2, Name: "Chips"}}, got)

	require.NoError(t, s.Save(ctx, KeyProducts, []doc{}))
	got = nil
	found, err = s.Load(ctx, KeyProducts, &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Empty(t, got)

	require.ErrorIs(t, s.Save(ctx, "", []doc{}), ErrEmptyKey)

	if r, ok := s.(Remover); ok {
		require.NoError(t, r.Remove(ctx, KeyProducts, KeyInventory))
		found, err = s.Load(ctx, KeyProducts, &got)
		require.NoError(t, err)
		require.False(t, found)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_SavedValueIsDetached(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	src := []doc{{ID: 1, Name: "Cola"}}
	require.NoError(t, s.Save(ctx, KeyProducts, src))
	src[0].Name = "changed"

	var got []doc
	_, err := s.Load(ctx, KeyProducts, &got)
	require.NoError(t, err)
	require.Equal(t, "Cola", got[0].Name)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)

	require.Error(t, s.Save(context.Background(), "../escape", []doc{}))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisStore(client, "test")
	exerciseStore(t, s)

	require.NoError(t, s.Save(context.Background(), KeyInventory, []doc{{ID: 3}}))
	require.True(t, mr.Exists("test:inventory"))
}
