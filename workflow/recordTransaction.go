package workflow

import (
	"context"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TransactionFields is a transaction as an operator types it. Type and Price
// are still raw text.
type TransactionFields struct {
	Type            string
	ProductID       int
	Quantity        int
	Price           string
	Date            string
	Remark          string
	ExpenseType     string
	ConfirmOversell bool
}

// ParseTransactionFields converts f into ledger input. Price accepts thousands
// separators such as "20,000"; a damage entry may leave it empty.
func ParseTransactionFields(f TransactionFields) (models.TransactionInput, error) {
	typ, err := models.ParseTransactionType(f.Type)
	if err != nil {
		return models.TransactionInput{}, err
	}
	price := decimal.Zero
	if f.Price != "" || typ != models.TransactionDamage {
		if price, err = models.ParseAmount("price", f.Price); err != nil {
			return models.TransactionInput{}, err
		}
	}
	in := models.TransactionInput{
		Date:            f.Date,
		Type:            typ,
		Quantity:        f.Quantity,
		Price:           price,
		Remark:          f.Remark,
		ExpenseType:     f.ExpenseType,
		ConfirmOversell: f.ConfirmOversell,
	}
	if typ.AffectsStock() {
		in.ProductID = models.IntPtr(f.ProductID)
	}
	return in, nil
}

// RecordTransaction parses f and appends it to l.
func RecordTransaction(ctx context.Context, l *ledger.Ledger, logger *logrus.Logger, f TransactionFields) (*models.Transaction, error) {
	in, err := ParseTransactionFields(f)
	if err != nil {
		return nil, err
	}
	tx, err := l.AppendTransaction(ctx, in)
	if err != nil {
		config.LogError(logger, "recordTransaction.go", "RecordTransaction", "AppendTransaction", f, err)
		return nil, err
	}
	return tx, nil
}
