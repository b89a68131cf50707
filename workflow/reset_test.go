package workflow

import (
	"context"
	"testing"

	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/stretchr/testify/require"
)

// saveOnly hides Remove so ResetStore has to overwrite.
type saveOnly struct {
	storage.KeyValueStore
}

func TestResetStore_Removes(t *testing.T) {
	store, _ := seeded(t)
	require.NoError(t, ResetStore(context.Background(), store))

	for _, key := range storage.DocumentKeys {
		var v any
		found, err := store.Load(context.Background(), key, &v)
		require.NoError(t, err)
		require.False(t, found, key)
	}
	require.Empty(t, openLedger(t, store).Products())
}

func TestResetStore_OverwritesWithoutRemover(t *testing.T) {
	store, _ := seeded(t)
	require.NoError(t, ResetStore(context.Background(), saveOnly{store}))

	l := openLedger(t, store)
	require.Empty(t, l.Products())
	require.Empty(t, l.Transactions())
	require.Empty(t, l.Inventory())
}
