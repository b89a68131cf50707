// Package storage persists the ledger's named JSON documents.
package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	KeyProducts     = "products"
	KeyInventory    = "inventory"
	KeyTransactions = "transactions"
	KeySequences    = "sequences"
)

// DocumentKeys lists every document the ledger writes.
var DocumentKeys = []string{KeyProducts, KeyInventory, KeyTransactions, KeySequences}

// KeyValueStore loads and saves whole JSON documents by name.
// Load reports found=false (and leaves dest untouched) when key was never saved.
type KeyValueStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Remover is implemented by stores that can drop documents.
type Remover interface {
	Remove(ctx context.Context, keys ...string) error
}

var ErrEmptyKey = errors.New("storage: empty key")

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func decodeError(key string, err error) error {
	return fmt.Errorf("storage: decode %q: %w", key, err)
}
