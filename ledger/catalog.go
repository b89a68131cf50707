package ledger

import (
	"context"
	"slices"
	"sort"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/mmdatafocus/shop_ledger/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Catalog manages products. Every product owns exactly one inventory record,
// created and deleted with it.
type Catalog struct {
	l *Ledger
}

// CreateProduct adds a product and its empty inventory record, valued at the
// product's cost price.
func (c *Catalog) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	l := c.l
	in.Normalize()
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	ctx, span := l.tracer.Start(ctx, "catalog.create")
	defer span.End()

	l.mu.Lock()
	p, err := c.createLocked(ctx, in)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("product.id", p.ID))
	l.emit(ctx, ChangeEvent{Action: ActionCreated, ReferenceType: RefProduct, ReferenceID: p.ID, Revision: rev, Payload: *p})
	return p, nil
}

func (c *Catalog) createLocked(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	l := c.l
	id, err := l.ids.NextID(ctx, KindProducts, l.productIDs())
	if err != nil {
		return nil, err
	}
	p := models.NewProduct(id, in)

	before := l.snapshot()
	l.products = append(l.products, p)
	l.inventory[id] = models.InventoryRecord{ProductID: id, Quantity: 0, AvgCost: p.CostPrice, LastUpdate: l.clock()}
	if err := l.commit(ctx, before, storage.KeyProducts, storage.KeyInventory); err != nil {
		config.LogError(l.logger, "catalog", "CreateProduct", "commit", p, err)
		return nil, err
	}
	return &p, nil
}

// UpdateProduct replaces every mutable field of product id.
func (c *Catalog) UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error) {
	l := c.l
	in.Normalize()
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	ctx, span := l.tracer.Start(ctx, "catalog.update", trace.WithAttributes(attribute.Int("product.id", id)))
	defer span.End()

	l.mu.Lock()
	idx := l.productIndex(id)
	if idx < 0 {
		l.mu.Unlock()
		return nil, &models.NotFoundError{Kind: "product", ID: id}
	}
	before := l.snapshot()
	l.products[idx].Replace(in)
	p := l.products[idx]
	err := l.commit(ctx, before, storage.KeyProducts)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		config.LogError(l.logger, "catalog", "UpdateProduct", "commit", p, err)
		span.RecordError(err)
		return nil, err
	}
	l.emit(ctx, ChangeEvent{Action: ActionUpdated, ReferenceType: RefProduct, ReferenceID: id, Revision: rev, Payload: p})
	return &p, nil
}

// DeleteProduct removes the product, its inventory record and every
// transaction that references it. An unknown id is a no-op.
func (c *Catalog) DeleteProduct(ctx context.Context, id int) error {
	l := c.l
	ctx, span := l.tracer.Start(ctx, "catalog.delete", trace.WithAttributes(attribute.Int("product.id", id)))
	defer span.End()

	l.mu.Lock()
	idx := l.productIndex(id)
	if idx < 0 {
		l.mu.Unlock()
		return nil
	}
	before := l.snapshot()
	l.products = slices.Delete(l.products, idx, idx+1)
	delete(l.inventory, id)
	l.transactions = slices.DeleteFunc(l.transactions, func(tx models.Transaction) bool {
		return tx.IsForProduct(id)
	})
	removed := len(before.transactions) - len(l.transactions)
	err := l.commit(ctx, before, storage.KeyProducts, storage.KeyInventory, storage.KeyTransactions)
	rev := l.revision
	l.mu.Unlock()
	if err != nil {
		config.LogError(l.logger, "catalog", "DeleteProduct", "commit", id, err)
		span.RecordError(err)
		return err
	}
	l.logger.WithField("productId", id).WithField("transactions", removed).Debug("catalog.product.deleted")
	l.emit(ctx, ChangeEvent{Action: ActionDeleted, ReferenceType: RefProduct, ReferenceID: id, Revision: rev})
	return nil
}

func (c *Catalog) Product(id int) (models.Product, bool) {
	return c.l.Product(id)
}

// Products returns every product ordered by id.
func (c *Catalog) Products() []models.Product {
	return c.l.Products()
}

// ProductsByCategory groups products by category, each group ordered by id.
func (c *Catalog) ProductsByCategory() map[string][]models.Product {
	out := make(map[string][]models.Product)
	for _, p := range c.l.Products() {
		out[p.Category] = append(out[p.Category], p)
	}
	return out
}

// Categories lists the distinct categories in use, sorted.
func (c *Catalog) Categories() []string {
	groups := c.ProductsByCategory()
	out := make([]string, 0, len(groups))
	for k := range groups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
