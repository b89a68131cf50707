package ledger

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

func qty(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// applyEffect moves rec forward by tx. Purchases blend their price into the
// weighted average; sales and damage only take units off.
func applyEffect(rec *models.InventoryRecord, tx models.Transaction) error {
	switch tx.Type {
	case models.TransactionSale, models.TransactionDamage:
		rec.Quantity -= tx.Quantity
	case models.TransactionPurchase:
		newQty := rec.Quantity + tx.Quantity
		if newQty > 0 {
			total := rec.AvgCost.Mul(qty(rec.Quantity)).Add(tx.Price.Mul(qty(tx.Quantity)))
			rec.AvgCost = nonNegative(total.Div(qty(newQty)))
		}
		rec.Quantity = newQty
	case models.TransactionExpense:
		return nil
	default:
		return fmt.Errorf("%w: %q", models.ErrUnknownTransactionType, tx.Type)
	}
	rec.LastUpdate = tx.Date
	return nil
}

// reverseEffect undoes applyEffect for a deleted tx.
func reverseEffect(rec *models.InventoryRecord, tx models.Transaction, at time.Time) error {
	switch tx.Type {
	case models.TransactionSale, models.TransactionDamage:
		rec.Quantity += tx.Quantity
	case models.TransactionPurchase:
		newQty := rec.Quantity - tx.Quantity
		if newQty < 0 {
			newQty = 0
		}
		if newQty > 0 && rec.Quantity > 0 {
			remaining := rec.AvgCost.Mul(qty(rec.Quantity)).Sub(tx.Price.Mul(qty(tx.Quantity)))
			rec.AvgCost = nonNegative(remaining.Div(qty(newQty)))
		}
		rec.Quantity = newQty
	case models.TransactionExpense:
		return nil
	default:
		return fmt.Errorf("%w: %q", models.ErrUnknownTransactionType, tx.Type)
	}
	rec.LastUpdate = at
	return nil
}

// valuation returns what tx adds to income or expense. Damage is valued at the
// product's cost price when the product still exists.
func valuation(tx models.Transaction, product *models.Product) (decimal.Decimal, error) {
	switch tx.Type {
	case models.TransactionSale, models.TransactionPurchase, models.TransactionExpense:
		return tx.Amount(), nil
	case models.TransactionDamage:
		if product != nil {
			return product.CostPrice.Mul(qty(tx.Quantity)), nil
		}
		return tx.Amount(), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", models.ErrUnknownTransactionType, tx.Type)
}
