package reports

import (
	"time"

	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

// DefaultTrendDays is the length of the dashboard sales trend.
const DefaultTrendDays = 15

type StockAlert struct {
	ProductID int                `json:"productId"`
	Name      string             `json:"name"`
	Category  string             `json:"category"`
	Unit      string             `json:"unit"`
	Quantity  int                `json:"quantity"`
	Status    models.StockStatus `json:"status"`
	AvgCost   decimal.Decimal    `json:"avgCost"`
}

type DayAmount struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type DashboardSummary struct {
	GeneratedAt    time.Time       `json:"generatedAt"`
	TodaySales     decimal.Decimal `json:"todaySales"`
	MonthSales     decimal.Decimal `json:"monthSales"`
	MonthProfit    decimal.Decimal `json:"monthProfit"`
	ProductCount   int             `json:"productCount"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	LowStock       []StockAlert    `json:"lowStock"`
	TopProducts    []TopProduct    `json:"topProducts"`
	SalesTrend     []DayAmount     `json:"salesTrend"`
}

// Dashboard summarises the ledger as of src.Now(). A threshold below one
// falls back to ledger.DefaultLowStockThreshold.
func Dashboard(src Source, threshold int) *DashboardSummary {
	if threshold < 1 {
		threshold = ledger.DefaultLowStockThreshold
	}
	now := src.Now()
	loc := src.Location()
	month := models.MonthPeriod(now, loc)

	d := &DashboardSummary{
		GeneratedAt:    now,
		TodaySales:     src.SalesInRange(models.DayPeriod(now, loc)),
		MonthSales:     src.SalesInRange(month),
		MonthProfit:    src.FinancialSummary(month).Profit,
		ProductCount:   len(src.Products()),
		InventoryValue: src.InventoryValue(),
		LowStock:       LowStockAlerts(src, threshold),
		TopProducts:    topProducts(src, month, ledger.DefaultTopProducts),
		SalesTrend:     SalesTrend(src, now, DefaultTrendDays),
	}
	return d
}

// LowStockAlerts lists products below threshold, lowest quantity first.
func LowStockAlerts(src Source, threshold int) []StockAlert {
	low := src.LowStockItems(threshold)
	out := make([]StockAlert, 0, len(low))
	for _, rec := range low {
		a := StockAlert{
			ProductID: rec.ProductID,
			Name:      productName(src, rec.ProductID),
			Quantity:  rec.Quantity,
			Status:    models.ClassifyStock(rec.Quantity),
			AvgCost:   rec.AvgCost,
		}
		if p, ok := src.Product(rec.ProductID); ok {
			a.Category = p.Category
			a.Unit = p.Unit
		}
		out = append(out, a)
	}
	return out
}

// SalesTrend returns one sales total per day for the days ending on end,
// oldest first. Days without sales are zero.
func SalesTrend(src Source, end time.Time, days int) []DayAmount {
	loc := src.Location()
	p := models.LastDays(end, days, loc)
	out := make([]DayAmount, 0, days)
	for _, d := range p.Days() {
		out = append(out, DayAmount{
			Date:   models.DayKey(d, loc),
			Amount: src.SalesInRange(models.DayPeriod(d, loc)),
		})
	}
	return out
}
