package ledger

import (
	"sort"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultLowStockThreshold = 20
	DefaultTopProducts       = 5
)

// SalesInRange sums price*quantity over sales dated within p.
func (l *Ledger) SalesInRange(p models.Period) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, tx := range l.transactions {
		if tx.Type == models.TransactionSale && p.Contains(tx.Date) {
			total = total.Add(tx.Amount())
		}
	}
	return total
}

// LowStockItems returns records with quantity below threshold, lowest first.
// Negative stock sorts ahead of everything else.
func (l *Ledger) LowStockItems(threshold int) []models.InventoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.InventoryRecord
	for _, rec := range l.inventoryInProductOrder() {
		if rec.Quantity < threshold {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out
}

type ProductSales struct {
	ProductID int
	Quantity  int
	Amount    decimal.Decimal
}

// TopProducts ranks products by sales amount within p. Ties keep the order in
// which products first appear in the log. n <= 0 means DefaultTopProducts.
func (l *Ledger) TopProducts(p models.Period, n int) []ProductSales {
	if n <= 0 {
		n = DefaultTopProducts
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var ranked []ProductSales
	pos := make(map[int]int)
	for _, tx := range l.transactions {
		if tx.Type != models.TransactionSale || tx.ProductID == nil || !p.Contains(tx.Date) {
			continue
		}
		i, ok := pos[*tx.ProductID]
		if !ok {
			i = len(ranked)
			pos[*tx.ProductID] = i
			ranked = append(ranked, ProductSales{ProductID: *tx.ProductID, Amount: decimal.Zero})
		}
		ranked[i].Quantity += tx.Quantity
		ranked[i].Amount = ranked[i].Amount.Add(tx.Amount())
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Amount.GreaterThan(ranked[j].Amount) })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type FinancialSummary struct {
	Income       decimal.Decimal
	PurchaseCost decimal.Decimal
	DamageCost   decimal.Decimal
	OtherExpense decimal.Decimal
	// Expense is PurchaseCost + DamageCost + OtherExpense.
	Expense decimal.Decimal
	Profit  decimal.Decimal
}

// FinancialSummary totals income and expense for transactions within p.
func (l *Ledger) FinancialSummary(p models.Period) FinancialSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := FinancialSummary{
		Income:       decimal.Zero,
		PurchaseCost: decimal.Zero,
		DamageCost:   decimal.Zero,
		OtherExpense: decimal.Zero,
	}
	for _, tx := range l.transactions {
		if !p.Contains(tx.Date) {
			continue
		}
		var product *models.Product
		if tx.ProductID != nil {
			if i := l.productIndex(*tx.ProductID); i >= 0 {
				product = &l.products[i]
			}
		}
		v, err := valuation(tx, product)
		if err != nil {
			l.logger.WithField("id", tx.ID).WithError(err).Warn("ledger.summary.skip")
			continue
		}
		switch tx.Type {
		case models.TransactionSale:
			s.Income = s.Income.Add(v)
		case models.TransactionPurchase:
			s.PurchaseCost = s.PurchaseCost.Add(v)
		case models.TransactionDamage:
			s.DamageCost = s.DamageCost.Add(v)
		case models.TransactionExpense:
			s.OtherExpense = s.OtherExpense.Add(v)
		}
	}
	s.Expense = s.PurchaseCost.Add(s.DamageCost).Add(s.OtherExpense)
	s.Profit = s.Income.Sub(s.Expense)
	return s
}

// InventoryValue is the sum of avgCost*quantity over all products.
func (l *Ledger) InventoryValue() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, rec := range l.inventoryInProductOrder() {
		total = total.Add(rec.Value())
	}
	return total
}

// TransactionsIn returns copies of the transactions dated within p in
// chronological order; same-instant entries keep log order.
func (l *Ledger) TransactionsIn(p models.Period) []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Transaction
	for _, tx := range l.transactions {
		if p.Contains(tx.Date) {
			out = append(out, tx.Clone())
		}
	}
	sortByDate(out)
	return out
}

func sortByDate(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
}
