package workflow

import (
	"context"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
)

// ResetStore clears every ledger document. Stores that cannot remove keys
// get empty documents instead.
func ResetStore(ctx context.Context, store storage.KeyValueStore) error {
	if r, ok := store.(storage.Remover); ok {
		if err := r.Remove(ctx, storage.DocumentKeys...); err != nil {
			config.LogError(config.GetLogger(), "reset.go", "ResetStore", "Remove", storage.DocumentKeys, err)
			return err
		}
		return nil
	}
	empty := map[string]any{
		storage.KeyProducts:     []models.Product{},
		storage.KeyInventory:    []models.InventoryRecord{},
		storage.KeyTransactions: []models.Transaction{},
		storage.KeySequences:    map[string]int{},
	}
	for _, key := range storage.DocumentKeys {
		if err := store.Save(ctx, key, empty[key]); err != nil {
			config.LogError(config.GetLogger(), "reset.go", "ResetStore", "Save", key, err)
			return err
		}
	}
	return nil
}
