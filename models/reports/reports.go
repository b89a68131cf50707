// Package reports builds read-only daily, monthly and dashboard views over the ledger.
package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

// ErrNoData means nothing matched the requested period. The report returned
// alongside it is zero-filled and safe to render as a placeholder.
var ErrNoData = errors.New("no data for period")

var ErrUnknownReportKind = errors.New("unknown report kind")

// Source is the read side of the ledger the reports need.
type Source interface {
	Now() time.Time
	Location() *time.Location
	Revision() uint64
	Product(id int) (models.Product, bool)
	Products() []models.Product
	TransactionsIn(p models.Period) []models.Transaction
	SalesInRange(p models.Period) decimal.Decimal
	TopProducts(p models.Period, n int) []ledger.ProductSales
	FinancialSummary(p models.Period) ledger.FinancialSummary
	LowStockItems(threshold int) []models.InventoryRecord
	InventoryValue() decimal.Decimal
}

var _ Source = (*ledger.Ledger)(nil)

type Kind string

const (
	KindDaily   Kind = "daily"
	KindMonthly Kind = "monthly"
)

type Report struct {
	Kind    Kind           `json:"kind"`
	Period  models.Period  `json:"period"`
	Daily   *DailyReport   `json:"daily,omitempty"`
	Monthly *MonthlyReport `json:"monthly,omitempty"`
}

// Generate builds the report of kind covering the day or month containing at.
func Generate(src Source, kind Kind, at time.Time) (*Report, error) {
	switch kind {
	case KindDaily:
		r, err := Daily(src, at)
		return &Report{Kind: kind, Period: models.DayPeriod(at, src.Location()), Daily: r}, err
	case KindMonthly:
		r, err := Monthly(src, at)
		return &Report{Kind: kind, Period: models.MonthPeriod(at, src.Location()), Monthly: r}, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
}

type TopProduct struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

func topProducts(src Source, p models.Period, n int) []TopProduct {
	ranked := src.TopProducts(p, n)
	out := make([]TopProduct, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, TopProduct{
			ProductID: r.ProductID,
			Name:      productName(src, r.ProductID),
			Quantity:  r.Quantity,
			Amount:    r.Amount,
		})
	}
	return out
}

func productName(src Source, id int) string {
	if p, ok := src.Product(id); ok {
		return p.Name
	}
	return fmt.Sprintf("Unknown product #%d", id)
}

// describe returns the display name and unit for a transaction row.
func describe(src Source, tx models.Transaction) (string, string) {
	if tx.Type == models.TransactionExpense {
		return models.ExpenseTypeName(tx.ExpenseType), ""
	}
	if p, ok := src.Product(tx.PID()); ok {
		return p.Name, p.Unit
	}
	return productName(src, tx.PID()), ""
}
