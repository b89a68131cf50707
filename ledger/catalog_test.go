package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
)

func TestCreateProduct_CreatesInventoryAtCost(t *testing.T) {
	l := openLedger(t, storage.NewMemoryStore())
	p, err := l.Catalog().CreateProduct(context.Background(), models.ProductInput{
		Name: "  Green tea ", Category: "drinks", Unit: "bottle", CostPrice: dec("1.25"), SellPrice: dec("2"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != 1 || p.Name != "Green tea" {
		t.Fatalf("unexpected product %+v", p)
	}
	rec := stock(t, l, p.ID)
	if rec.Quantity != 0 || !rec.AvgCost.Equal(dec("1.25")) || !rec.LastUpdate.Equal(day0) {
		t.Fatalf("unexpected inventory %+v", rec)
	}

	q := mustProduct(t, l, "Chips", "1", "2")
	if q.ID != 2 {
		t.Fatalf("expected id 2, got %d", q.ID)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	l := openLedger(t, storage.NewMemoryStore())
	_, err := l.Catalog().CreateProduct(context.Background(), models.ProductInput{Name: " ", Unit: "pcs"})
	var ve *models.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	_, err = l.Catalog().CreateProduct(context.Background(), models.ProductInput{Name: "x", Unit: "pcs", CostPrice: dec("-2")})
	if !errors.As(err, &ve) || ve.Field != "costPrice" {
		t.Fatalf("expected costPrice validation error, got %v", err)
	}
	if len(l.Products()) != 0 {
		t.Fatalf("invalid products must not be stored")
	}
}

func TestUpdateProduct(t *testing.T) {
	l := openLedger(t, storage.NewMemoryStore())
	p := mustProduct(t, l, "Cola", "5", "8")

	_, err := l.Catalog().UpdateProduct(context.Background(), 77, models.ProductInput{Name: "x", Unit: "y"})
	var nf *models.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 77 || !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	got, err := l.Catalog().UpdateProduct(context.Background(), p.ID, models.ProductInput{
		Name: "Cola Zero", Category: "drinks", Unit: "can", CostPrice: dec("6"), SellPrice: dec("9"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != p.ID || got.Name != "Cola Zero" || got.Category != "drinks" || !got.SellPrice.Equal(dec("9")) {
		t.Fatalf("unexpected update result %+v", got)
	}
	stored, _ := l.Catalog().Product(p.ID)
	if stored.Unit != "can" {
		t.Fatalf("update not applied: %+v", stored)
	}
}

func TestDeleteProduct_Cascades(t *testing.T) {
	store := storage.NewMemoryStore()
	l := openLedger(t, store)
	a := mustProduct(t, l, "A", "1", "2")
	b := mustProduct(t, l, "B", "1", "2")
	mustAppend(t, l, purchase(a.ID, 5, "1", ""))
	mustAppend(t, l, sale(a.ID, 2, "2", ""))
	keep := mustAppend(t, l, purchase(b.ID, 3, "1", ""))
	mustAppend(t, l, models.TransactionInput{Type: models.TransactionExpense, Price: dec("10")})

	if err := l.Catalog().DeleteProduct(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// idempotent
	if err := l.Catalog().DeleteProduct(context.Background(), a.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	for _, led := range []*Ledger{l, openLedger(t, store)} {
		if _, ok := led.Product(a.ID); ok {
			t.Fatalf("product still present")
		}
		if _, ok := led.InventoryRecord(a.ID); ok {
			t.Fatalf("inventory record still present")
		}
		txs := led.Transactions()
		if len(txs) != 2 {
			t.Fatalf("expected 2 remaining transactions, got %d", len(txs))
		}
		for _, tx := range txs {
			if tx.IsForProduct(a.ID) {
				t.Fatalf("orphaned transaction %d", tx.ID)
			}
		}
		if _, ok := led.Transaction(keep.ID); !ok {
			t.Fatalf("unrelated transaction removed")
		}
	}
}

func TestDeleteProduct_RollsBackOnFailure(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	l := openLedger(t, store)
	p := mustProduct(t, l, "A", "1", "2")
	mustAppend(t, l, purchase(p.ID, 5, "1", ""))

	store.failKey = storage.KeyTransactions
	err := l.Catalog().DeleteProduct(context.Background(), p.ID)
	if !errors.Is(err, models.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, ok := l.Product(p.ID); !ok {
		t.Fatalf("product should be back after rollback")
	}
	if rec := stock(t, l, p.ID); rec.Quantity != 5 {
		t.Fatalf("inventory should be back after rollback, got %+v", rec)
	}

	store.failKey = ""
	reopened := openLedger(t, store)
	if _, ok := reopened.Product(p.ID); !ok {
		t.Fatalf("products document should have been restored")
	}
}

func TestCategories(t *testing.T) {
	l := openLedger(t, storage.NewMemoryStore())
	for _, in := range []models.ProductInput{
		{Name: "Tea", Category: "drinks", Unit: "box"},
		{Name: "Chips", Category: "snacks", Unit: "bag"},
		{Name: "Cola", Category: "drinks", Unit: "can"},
	} {
		if _, err := l.Catalog().CreateProduct(context.Background(), in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	cats := l.Catalog().Categories()
	if len(cats) != 2 || cats[0] != "drinks" || cats[1] != "snacks" {
		t.Fatalf("unexpected categories %v", cats)
	}
	if n := len(l.Catalog().ProductsByCategory()["drinks"]); n != 2 {
		t.Fatalf("expected 2 drinks, got %d", n)
	}
}
