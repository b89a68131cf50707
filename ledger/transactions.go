package ledger

import (
	"context"
	"slices"
	"strings"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AppendTransaction validates in, records it and applies its inventory effect.
//
// A sale or damage larger than the stock on hand returns a
// *models.ShortfallWarning and records nothing unless in.ConfirmOversell is set.
func (l *Ledger) AppendTransaction(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.append", trace.WithAttributes(
		attribute.String("tx.type", string(in.Type)),
	))
	defer span.End()

	l.mu.Lock()
	tx, err := l.appendLocked(ctx, in)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("tx.id", tx.ID))
	l.logger.WithFields(logrus.Fields{
		"id":        tx.ID,
		"type":      tx.Type,
		"productId": tx.PID(),
		"quantity":  tx.Quantity,
	}).Debug("ledger.transaction.created")
	l.emit(ctx, ChangeEvent{Action: ActionCreated, ReferenceType: RefTransaction, ReferenceID: tx.ID, Revision: rev, Payload: *tx})
	return tx, nil
}

func (l *Ledger) appendLocked(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	tx, err := l.prepare(in)
	if err != nil {
		return nil, err
	}
	if warn := l.shortfall(tx); warn != nil && !in.ConfirmOversell {
		return nil, warn
	}

	id, err := l.ids.NextID(ctx, KindTransactions, l.transactionIDs())
	if err != nil {
		return nil, err
	}
	tx.ID = id

	backdated := tx.Type.AffectsStock() && tx.Date.Before(l.latestDate(*tx.ProductID))

	before := l.snapshot()
	l.transactions = append(l.transactions, tx)
	keys := []string{storage.KeyTransactions}
	if tx.Type.AffectsStock() {
		pid := *tx.ProductID
		rec, err := l.stockAfter(pid, tx, backdated)
		if err != nil {
			l.restore(before)
			return nil, err
		}
		l.inventory[pid] = rec
		keys = append(keys, storage.KeyInventory)
	}
	if err := l.commit(ctx, before, keys...); err != nil {
		config.LogError(l.logger, "ledger", "AppendTransaction", "commit", tx, err)
		return nil, err
	}
	out := tx.Clone()
	return &out, nil
}

// stockAfter returns pid's inventory once tx is in the log. A transaction dated
// before the product's newest one is folded in by replaying the product in date
// order, so the weighted average matches a chronological replay.
func (l *Ledger) stockAfter(pid int, tx models.Transaction, backdated bool) (models.InventoryRecord, error) {
	if backdated {
		l.logger.WithFields(logrus.Fields{"productId": pid, "date": tx.Date}).Info("ledger.transaction.backdated")
		return l.replay(pid)
	}
	rec, ok := l.inventory[pid]
	if !ok {
		p, _ := l.product(pid)
		rec = models.InventoryRecord{ProductID: pid, AvgCost: p.CostPrice}
	}
	if err := applyEffect(&rec, tx); err != nil {
		return models.InventoryRecord{}, err
	}
	return rec, nil
}

// prepare validates in and builds the transaction it describes, without an id.
func (l *Ledger) prepare(in models.TransactionInput) (models.Transaction, error) {
	if !in.Type.Valid() {
		return models.Transaction{}, &models.ValidationError{Field: "type", Message: "must be one of sale, purchase, damage, expense"}
	}
	date, err := models.ResolveDate(in.Date, l.clock(), l.loc)
	if err != nil {
		return models.Transaction{}, err
	}
	tx := models.Transaction{
		Date:   date,
		Type:   in.Type,
		Remark: strings.TrimSpace(in.Remark),
	}

	switch in.Type {
	case models.TransactionSale, models.TransactionPurchase, models.TransactionDamage:
		if in.ProductID == nil {
			return tx, &models.ValidationError{Field: "productId", Message: "is required"}
		}
		if l.productIndex(*in.ProductID) < 0 {
			return tx, &models.ValidationError{Field: "productId", Message: "does not reference an existing product"}
		}
		if in.Quantity <= 0 {
			return tx, &models.ValidationError{Field: "quantity", Message: "must be > 0"}
		}
		if in.Type != models.TransactionDamage && in.Price.IsNegative() {
			return tx, &models.ValidationError{Field: "price", Message: "must be >= 0"}
		}
		tx.ProductID = models.IntPtr(*in.ProductID)
		tx.Quantity = in.Quantity
		tx.Price = in.Price
	case models.TransactionExpense:
		if !in.Price.IsPositive() {
			return tx, &models.ValidationError{Field: "price", Message: "must be > 0"}
		}
		expenseType, err := models.NormalizeExpenseType(in.ExpenseType)
		if err != nil {
			return tx, err
		}
		tx.Quantity = 1
		tx.Price = in.Price
		tx.ExpenseType = expenseType
		if tx.Remark == "" {
			tx.Remark = models.ExpenseTypeName(expenseType)
		}
	}
	return tx, nil
}

func (l *Ledger) shortfall(tx models.Transaction) *models.ShortfallWarning {
	if !tx.Type.Outgoing() || tx.ProductID == nil {
		return nil
	}
	available := l.inventory[*tx.ProductID].Quantity
	if available >= tx.Quantity {
		return nil
	}
	return &models.ShortfallWarning{ProductID: *tx.ProductID, Available: available, Requested: tx.Quantity}
}

// CheckShortfall validates in and reports whether recording it would oversell.
// It returns nil, nil when stock covers the request.
func (l *Ledger) CheckShortfall(in models.TransactionInput) (*models.ShortfallWarning, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := l.prepare(in)
	if err != nil {
		return nil, err
	}
	return l.shortfall(tx), nil
}

// DeleteTransaction removes the transaction with id and reverses its inventory
// effect. An unknown id is a no-op and returns nil, nil.
func (l *Ledger) DeleteTransaction(ctx context.Context, id int) (*models.Transaction, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.delete", trace.WithAttributes(attribute.Int("tx.id", id)))
	defer span.End()

	l.mu.Lock()
	tx, err := l.deleteLocked(ctx, id)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}
	l.logger.WithFields(logrus.Fields{"id": tx.ID, "type": tx.Type}).Debug("ledger.transaction.deleted")
	l.emit(ctx, ChangeEvent{Action: ActionDeleted, ReferenceType: RefTransaction, ReferenceID: tx.ID, Revision: rev, Payload: *tx})
	return tx, nil
}

func (l *Ledger) deleteLocked(ctx context.Context, id int) (*models.Transaction, error) {
	idx := l.transactionIndex(id)
	if idx < 0 {
		return nil, nil
	}
	tx := l.transactions[idx].Clone()

	before := l.snapshot()
	keys := []string{storage.KeyTransactions}
	if tx.Type.AffectsStock() && tx.ProductID != nil {
		if rec, ok := l.inventory[*tx.ProductID]; ok {
			if err := reverseEffect(&rec, tx, l.clock()); err != nil {
				return nil, err
			}
			l.inventory[*tx.ProductID] = rec
			keys = append(keys, storage.KeyInventory)
		}
	}
	l.transactions = slices.Delete(l.transactions, idx, idx+1)
	if err := l.commit(ctx, before, keys...); err != nil {
		config.LogError(l.logger, "ledger", "DeleteTransaction", "commit", tx, err)
		return nil, err
	}
	return &tx, nil
}
