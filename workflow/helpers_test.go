package workflow

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func quietLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func openLedger(t *testing.T, store storage.KeyValueStore, opts ...ledger.Option) *ledger.Ledger {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	base := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithLocation(time.UTC),
	}
	l, err := ledger.Open(context.Background(), store, append(base, opts...)...)
	require.NoError(t, err)
	return l
}

// seeded returns a store holding one product with 10 units bought at 4.
func seeded(t *testing.T) (*storage.MemoryStore, models.Product) {
	t.Helper()
	store := storage.NewMemoryStore()
	l := openLedger(t, store)
	p, err := l.Catalog().CreateProduct(context.Background(), models.ProductInput{
		Name: "Rice", Unit: "kg", CostPrice: dec("3"), SellPrice: dec("5"),
	})
	require.NoError(t, err)
	_, err = l.AppendTransaction(context.Background(), models.TransactionInput{
		Date: "2024-05-01", Type: models.TransactionPurchase, ProductID: models.IntPtr(p.ID), Quantity: 10, Price: dec("4"),
	})
	require.NoError(t, err)
	return store, *p
}

// drift overwrites the stored inventory so it no longer matches the log.
func drift(t *testing.T, store storage.KeyValueStore, pid int) {
	t.Helper()
	err := store.Save(context.Background(), storage.KeyInventory, []models.InventoryRecord{
		{ProductID: pid, Quantity: 99, AvgCost: dec("1"), LastUpdate: now},
	})
	require.NoError(t, err)
}
