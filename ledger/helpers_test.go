package ledger

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var day0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openLedger(t *testing.T, store storage.KeyValueStore, opts ...Option) *Ledger {
	t.Helper()
	base := []Option{
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return day0 }),
		WithLocation(time.UTC),
	}
	l, err := Open(context.Background(), store, append(base, opts...)...)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	return l
}

func mustProduct(t *testing.T, l *Ledger, name, cost, sell string) models.Product {
	t.Helper()
	p, err := l.Catalog().CreateProduct(context.Background(), models.ProductInput{
		Name: name, Category: "snacks", Unit: "pcs", CostPrice: dec(cost), SellPrice: dec(sell),
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return *p
}

func mustAppend(t *testing.T, l *Ledger, in models.TransactionInput) models.Transaction {
	t.Helper()
	tx, err := l.AppendTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("append %s: %v", in.Type, err)
	}
	return *tx
}

func purchase(pid, n int, price string, date string) models.TransactionInput {
	return models.TransactionInput{Date: date, Type: models.TransactionPurchase, ProductID: models.IntPtr(pid), Quantity: n, Price: dec(price)}
}

func sale(pid, n int, price string, date string) models.TransactionInput {
	return models.TransactionInput{Date: date, Type: models.TransactionSale, ProductID: models.IntPtr(pid), Quantity: n, Price: dec(price), ConfirmOversell: true}
}

func stock(t *testing.T, l *Ledger, pid int) models.InventoryRecord {
	t.Helper()
	rec, ok := l.InventoryRecord(pid)
	if !ok {
		t.Fatalf("no inventory record for product %d", pid)
	}
	return rec
}

// flakyStore fails every Save of failKey.
type flakyStore struct {
	*storage.MemoryStore
	failKey string
}

func (s *flakyStore) Save(ctx context.Context, key string, value any) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(ctx, key, value)
}
