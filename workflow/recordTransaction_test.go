package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionFields(t *testing.T) {
	in, err := ParseTransactionFields(TransactionFields{Type: " Sale ", ProductID: 3, Quantity: 2, Price: "20,000", Date: "2024-05-02"})
	require.NoError(t, err)
	require.Equal(t, models.TransactionSale, in.Type)
	require.Equal(t, 3, *in.ProductID)
	require.True(t, in.Price.Equal(dec("20000")))
	require.Equal(t, "2024-05-02", in.Date)

	exp, err := ParseTransactionFields(TransactionFields{Type: "expense", ProductID: 3, Price: "1,500.50", ExpenseType: "rent"})
	require.NoError(t, err)
	require.Nil(t, exp.ProductID)
	require.True(t, exp.Price.Equal(dec("1500.5")))

	dmg, err := ParseTransactionFields(TransactionFields{Type: "damage", ProductID: 3, Quantity: 1})
	require.NoError(t, err)
	require.True(t, dmg.Price.IsZero())
}

func TestParseTransactionFields_Rejects(t *testing.T) {
	_, err := ParseTransactionFields(TransactionFields{Type: "refund", Price: "1"})
	require.True(t, errors.Is(err, models.ErrUnknownTransactionType))

	_, err = ParseTransactionFields(TransactionFields{Type: "purchase", ProductID: 1, Quantity: 1, Price: "ten"})
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "price", ve.Field)

	_, err = ParseTransactionFields(TransactionFields{Type: "sale", ProductID: 1, Quantity: 1})
	require.True(t, errors.Is(err, models.ErrValidation))
}

func TestRecordTransaction(t *testing.T) {
	store, p := seeded(t)
	l := openLedger(t, store)
	logger, _ := quietLogger()
	ctx := context.Background()

	tx, err := RecordTransaction(ctx, l, logger, TransactionFields{Type: "sale", ProductID: p.ID, Quantity: 4, Price: "5"})
	require.NoError(t, err)
	require.Equal(t, models.TransactionSale, tx.Type)
	rec, ok := l.InventoryRecord(p.ID)
	require.True(t, ok)
	require.Equal(t, 6, rec.Quantity)

	_, err = RecordTransaction(ctx, l, logger, TransactionFields{Type: "sale", ProductID: p.ID, Quantity: 7, Price: "5"})
	var short *models.ShortfallWarning
	require.True(t, errors.As(err, &short))
	require.Equal(t, 6, short.Available)
	require.Len(t, l.Transactions(), 2)
}
