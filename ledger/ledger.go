// Package ledger keeps stock quantities and weighted-average cost in step with
// the transaction log, and answers the aggregate queries reports are built on.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Ledger holds products, inventory and transactions in memory and writes
// every change back to its store. Concurrent writers in other processes are
// not detected; the last save wins.
type Ledger struct {
	mu sync.Mutex

	store  storage.KeyValueStore
	logger *logrus.Logger
	clock  func() time.Time
	loc    *time.Location
	ids    IDAllocator
	sink   EventSink
	tracer trace.Tracer

	observer Observer

	products     []models.Product
	inventory    map[int]models.InventoryRecord
	transactions []models.Transaction
	revision     uint64

	catalog *Catalog
}

type Option func(*Ledger)

func WithLogger(logger *logrus.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

func WithIDAllocator(ids IDAllocator) Option {
	return func(l *Ledger) { l.ids = ids }
}

func WithEventSink(sink EventSink) Option {
	return func(l *Ledger) { l.sink = sink }
}

// WithObserver reports mutation counts, for example to a metrics.Collector.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// Open loads the products, inventory and transactions documents from store.
// Missing documents start empty.
func Open(ctx context.Context, store storage.KeyValueStore, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:     store,
		logger:    config.GetLogger(),
		clock:     time.Now,
		loc:       time.UTC,
		ids:       MaxPlusOne{},
		tracer:    otel.Tracer("shop_ledger/ledger"),
		inventory: make(map[int]models.InventoryRecord),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.loc == nil {
		l.loc = time.UTC
	}

	var (
		products     []models.Product
		inventory    []models.InventoryRecord
		transactions []models.Transaction
	)
	for key, dest := range map[string]any{
		storage.KeyProducts:     &products,
		storage.KeyInventory:    &inventory,
		storage.KeyTransactions: &transactions,
	} {
		if _, err := store.Load(ctx, key, dest); err != nil {
			return nil, fmt.Errorf("ledger: load %s: %w", key, err)
		}
	}

	l.products = products
	l.transactions = transactions
	for _, rec := range inventory {
		if l.productIndex(rec.ProductID) < 0 {
			// Stock for a deleted product is dropped and disappears on the next save.
			l.logger.WithField("productId", rec.ProductID).Warn("ledger.inventory.orphan")
			continue
		}
		l.inventory[rec.ProductID] = rec
	}
	for _, p := range l.products {
		if _, ok := l.inventory[p.ID]; !ok {
			// Products saved without stock start empty at their cost price.
			l.inventory[p.ID] = models.InventoryRecord{ProductID: p.ID, AvgCost: p.CostPrice, LastUpdate: l.clock()}
			l.logger.WithField("productId", p.ID).Warn("ledger.inventory.missing")
		}
	}
	l.catalog = &Catalog{l: l}

	l.logger.WithFields(logrus.Fields{
		"products":     len(l.products),
		"transactions": len(l.transactions),
	}).Debug("ledger.open")
	return l, nil
}

// Catalog returns the product manager sharing this ledger's state.
func (l *Ledger) Catalog() *Catalog { return l.catalog }

// Revision increases by one after every successful mutation.
func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

func (l *Ledger) Location() *time.Location { return l.loc }

func (l *Ledger) Now() time.Time { return l.clock().In(l.loc) }

// state is a copy of everything a mutation may touch.
type state struct {
	products     []models.Product
	inventory    map[int]models.InventoryRecord
	transactions []models.Transaction
}

func (l *Ledger) snapshot() state {
	inv := make(map[int]models.InventoryRecord, len(l.inventory))
	for k, v := range l.inventory {
		inv[k] = v
	}
	return state{
		products:     slices.Clone(l.products),
		inventory:    inv,
		transactions: slices.Clone(l.transactions),
	}
}

func (l *Ledger) current() state {
	return state{products: l.products, inventory: l.inventory, transactions: l.transactions}
}

func (l *Ledger) restore(s state) {
	l.products = s.products
	l.inventory = s.inventory
	l.transactions = s.transactions
}

// document renders one stored document from s. Lists are never null.
func (s state) document(key string) any {
	switch key {
	case storage.KeyProducts:
		if s.products == nil {
			return []models.Product{}
		}
		return s.products
	case storage.KeyInventory:
		return inventoryList(s.inventory)
	case storage.KeyTransactions:
		if s.transactions == nil {
			return []models.Transaction{}
		}
		return s.transactions
	}
	return nil
}

func inventoryList(inv map[int]models.InventoryRecord) []models.InventoryRecord {
	out := make([]models.InventoryRecord, 0, len(inv))
	for _, rec := range inv {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// commit saves keys in order. When a save fails the documents already written
// are put back, memory is reset to before, and a *models.PersistenceError is returned.
func (l *Ledger) commit(ctx context.Context, before state, keys ...string) error {
	now := l.current()
	for i, key := range keys {
		err := l.store.Save(ctx, key, now.document(key))
		if err == nil {
			continue
		}
		for _, done := range keys[:i] {
			if rerr := l.store.Save(ctx, done, before.document(done)); rerr != nil {
				config.LogError(l.logger, "ledger", "commit", "restore "+done, nil, rerr)
			}
		}
		l.restore(before)
		if l.observer != nil {
			l.observer.ObservePersistenceFailure(key)
		}
		return &models.PersistenceError{Key: key, Err: err}
	}
	l.revision++
	return nil
}

func (l *Ledger) productIndex(id int) int {
	for i, p := range l.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) product(id int) (models.Product, bool) {
	if i := l.productIndex(id); i >= 0 {
		return l.products[i], true
	}
	return models.Product{}, false
}

func (l *Ledger) transactionIndex(id int) int {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) transactionIDs() []int {
	ids := make([]int, len(l.transactions))
	for i, tx := range l.transactions {
		ids[i] = tx.ID
	}
	return ids
}

func (l *Ledger) productIDs() []int {
	ids := make([]int, len(l.products))
	for i, p := range l.products {
		ids[i] = p.ID
	}
	return ids
}

// Product returns a copy of the product with id.
func (l *Ledger) Product(id int) (models.Product, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.product(id)
}

// Products returns every product ordered by id.
func (l *Ledger) Products() []models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Ledger) InventoryRecord(productID int) (models.InventoryRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.inventory[productID]
	return rec, ok
}

// Inventory lists the records of existing products in catalog order.
func (l *Ledger) Inventory() []models.InventoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inventoryInProductOrder()
}

func (l *Ledger) inventoryInProductOrder() []models.InventoryRecord {
	out := make([]models.InventoryRecord, 0, len(l.products))
	for _, p := range l.products {
		if rec, ok := l.inventory[p.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func (l *Ledger) Transaction(id int) (models.Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.transactionIndex(id); i >= 0 {
		return l.transactions[i].Clone(), true
	}
	return models.Transaction{}, false
}

// Transactions returns the log in insertion order.
func (l *Ledger) Transactions() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Transaction, len(l.transactions))
	for i, tx := range l.transactions {
		out[i] = tx.Clone()
	}
	return out
}
