package reports

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
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

type fixture struct {
	l    *ledger.Ledger
	rice models.Product
	oil  models.Product
}

// newFixture records three days of trading in May 2024:
//
//	05-01 purchase rice 30@5, oil 12@10
//	05-02 sale rice 4@8, oil 2@15, damage rice 1, rent 50
//	05-03 sale rice 10@8
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	l, err := ledger.Open(ctx, storage.NewMemoryStore(),
		ledger.WithLogger(logger),
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithLocation(time.UTC),
	)
	require.NoError(t, err)

	f := &fixture{l: l}
	f.rice = f.product(t, "Rice", "kg", "5", "8")
	f.oil = f.product(t, "Oil", "bottle", "10", "15")

	f.record(t, "2024-05-01", models.TransactionPurchase, f.rice.ID, 30, "5")
	f.record(t, "2024-05-01", models.TransactionPurchase, f.oil.ID, 12, "10")
	f.record(t, "2024-05-02", models.TransactionSale, f.rice.ID, 4, "8")
	f.record(t, "2024-05-02", models.TransactionSale, f.oil.ID, 2, "15")
	f.record(t, "2024-05-02", models.TransactionDamage, f.rice.ID, 1, "5")
	_, err = l.AppendTransaction(ctx, models.TransactionInput{
		Date: "2024-05-02", Type: models.TransactionExpense, Price: dec("50"), ExpenseType: models.ExpenseRent,
	})
	require.NoError(t, err)
	f.record(t, "2024-05-03", models.TransactionSale, f.rice.ID, 10, "8")
	return f
}

func (f *fixture) product(t *testing.T, name, unit, cost, sell string) models.Product {
	t.Helper()
	p, err := f.l.Catalog().CreateProduct(context.Background(), models.ProductInput{
		Name: name, Category: "grocery", Unit: unit, CostPrice: dec(cost), SellPrice: dec(sell),
	})
	require.NoError(t, err)
	return *p
}

func (f *fixture) record(t *testing.T, date string, typ models.TransactionType, pid, n int, price string) {
	t.Helper()
	_, err := f.l.AppendTransaction(context.Background(), models.TransactionInput{
		Date: date, Type: typ, ProductID: models.IntPtr(pid), Quantity: n, Price: dec(price),
	})
	require.NoError(t, err)
}

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}
