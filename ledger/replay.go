package ledger

import (
	"context"
	"time"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/sirupsen/logrus"
)

// ReplayMismatch is a product whose stored record differs from its replay.
type ReplayMismatch struct {
	ProductID int
	Stored    models.InventoryRecord
	Replayed  models.InventoryRecord
}

// ReplayProduct recomputes a product's inventory from its transactions in date
// order, starting from zero stock at the product's cost price.
func (l *Ledger) ReplayProduct(productID int) (models.InventoryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replay(productID)
}

func (l *Ledger) replay(productID int) (models.InventoryRecord, error) {
	p, ok := l.product(productID)
	if !ok {
		return models.InventoryRecord{}, &models.NotFoundError{Kind: "product", ID: productID}
	}
	rec := models.InventoryRecord{
		ProductID:  productID,
		AvgCost:    p.CostPrice,
		LastUpdate: l.inventory[productID].LastUpdate,
	}
	var txs []models.Transaction
	for _, tx := range l.transactions {
		if tx.IsForProduct(productID) {
			txs = append(txs, tx)
		}
	}
	sortByDate(txs)
	for _, tx := range txs {
		if err := applyEffect(&rec, tx); err != nil {
			return models.InventoryRecord{}, err
		}
	}
	return rec, nil
}

// latestDate is the newest transaction date recorded for productID, or the
// zero time when it has none.
func (l *Ledger) latestDate(productID int) time.Time {
	var latest time.Time
	for _, tx := range l.transactions {
		if tx.IsForProduct(productID) && tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	return latest
}

func sameStock(a, b models.InventoryRecord) bool {
	return a.Quantity == b.Quantity && a.AvgCost.Equal(b.AvgCost)
}

// VerifyReplay lists every product whose stored quantity or average cost
// differs from a replay of its transactions.
func (l *Ledger) VerifyReplay() ([]ReplayMismatch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mismatches(l.productIDs())
}

func (l *Ledger) mismatches(productIDs []int) ([]ReplayMismatch, error) {
	var out []ReplayMismatch
	for _, id := range productIDs {
		replayed, err := l.replay(id)
		if err != nil {
			return nil, err
		}
		stored := l.inventory[id]
		if !sameStock(stored, replayed) {
			out = append(out, ReplayMismatch{ProductID: id, Stored: stored, Replayed: replayed})
		}
	}
	return out, nil
}

// Rebuild overwrites stored inventory with replayed values for the given
// products (all products when none are given) and returns what changed.
func (l *Ledger) Rebuild(ctx context.Context, productIDs ...int) ([]ReplayMismatch, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.rebuild")
	defer span.End()

	l.mu.Lock()
	if len(productIDs) == 0 {
		productIDs = l.productIDs()
	}
	diff, err := l.mismatches(productIDs)
	if err != nil || len(diff) == 0 {
		l.mu.Unlock()
		return diff, err
	}
	before := l.snapshot()
	for _, m := range diff {
		l.inventory[m.ProductID] = m.Replayed
	}
	err = l.commit(ctx, before, storage.KeyInventory)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		config.LogError(l.logger, "ledger", "Rebuild", "commit", productIDs, err)
		span.RecordError(err)
		return nil, err
	}
	for _, m := range diff {
		l.logger.WithFields(logrus.Fields{
			"productId":       m.ProductID,
			"storedQty":       m.Stored.Quantity,
			"replayedQty":     m.Replayed.Quantity,
			"storedAvgCost":   m.Stored.AvgCost.String(),
			"replayedAvgCost": m.Replayed.AvgCost.String(),
		}).Info("ledger.rebuild.fixed")
		l.emit(ctx, ChangeEvent{Action: ActionRebuilt, ReferenceType: RefInventory, ReferenceID: m.ProductID, Revision: rev, Payload: m.Replayed})
	}
	return diff, nil
}
