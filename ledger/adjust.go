package ledger

import (
	"context"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/utils"
)

type AdjustmentKind string

const (
	AdjustAdd      AdjustmentKind = "add"
	AdjustSubtract AdjustmentKind = "subtract"
	AdjustSet      AdjustmentKind = "set"
)

type AdjustmentInput struct {
	ProductID int            `json:"productId" validate:"required"`
	Kind      AdjustmentKind `json:"kind" validate:"required,oneof=add subtract set"`
	Quantity  int            `json:"quantity" validate:"gte=0"`
	Reason    string         `json:"reason" validate:"required"`
}

const adjustmentRemarkPrefix = "Stock adjustment: "

// AdjustInventory corrects a product's stock count. The correction is recorded
// as a purchase (more stock) or damage (less stock) at the product's cost price
// so the log still replays to the stored inventory. Subtracting never takes
// stock below zero. It returns nil, nil when nothing needs to change.
func (l *Ledger) AdjustInventory(ctx context.Context, in AdjustmentInput) (*models.Transaction, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	ctx, span := l.tracer.Start(ctx, "ledger.adjust")
	defer span.End()

	l.mu.Lock()
	p, ok := l.product(in.ProductID)
	if !ok {
		l.mu.Unlock()
		return nil, &models.NotFoundError{Kind: "product", ID: in.ProductID}
	}
	current := l.inventory[in.ProductID].Quantity

	var delta int
	switch in.Kind {
	case AdjustAdd:
		delta = in.Quantity
	case AdjustSubtract:
		delta = -min(in.Quantity, max(current, 0))
	case AdjustSet:
		delta = in.Quantity - current
	}
	if delta == 0 {
		l.mu.Unlock()
		return nil, nil
	}

	txIn := models.TransactionInput{
		Type:            models.TransactionPurchase,
		ProductID:       models.IntPtr(in.ProductID),
		Quantity:        delta,
		Price:           p.CostPrice,
		Remark:          adjustmentRemarkPrefix + in.Reason,
		ConfirmOversell: true,
	}
	if delta < 0 {
		txIn.Type = models.TransactionDamage
		txIn.Quantity = -delta
	}
	tx, err := l.appendLocked(ctx, txIn)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	l.emit(ctx, ChangeEvent{Action: ActionCreated, ReferenceType: RefTransaction, ReferenceID: tx.ID, Revision: rev, Payload: *tx})
	return tx, nil
}
