package reports

import (
	"time"

	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

type FinanceDay struct {
	Date         string          `json:"date"`
	Income       decimal.Decimal `json:"income"`
	PurchaseCost decimal.Decimal `json:"purchaseCost"`
	DamageCost   decimal.Decimal `json:"damageCost"`
	OtherExpense decimal.Decimal `json:"otherExpense"`
	Profit       decimal.Decimal `json:"profit"`
}

type MonthlyReport struct {
	Month       string                  `json:"month"`
	Summary     ledger.FinancialSummary `json:"summary"`
	Days        []FinanceDay            `json:"days"`
	TopProducts []TopProduct            `json:"topProducts"`
	// ProfitMargin is profit over income in percent, zero without income.
	ProfitMargin decimal.Decimal `json:"profitMargin"`
}

// Monthly summarises the month containing month, with one row per calendar day.
func Monthly(src Source, month time.Time) (*MonthlyReport, error) {
	loc := src.Location()
	period := models.MonthPeriod(month, loc)
	r := &MonthlyReport{
		Month:       period.Start.Format("2006-01"),
		Summary:     src.FinancialSummary(period),
		Days:        FinanceDays(src, period),
		TopProducts: topProducts(src, period, ledger.DefaultTopProducts),
	}
	r.ProfitMargin = margin(r.Summary)
	if len(src.TransactionsIn(period)) == 0 {
		return r, ErrNoData
	}
	return r, nil
}

// FinanceDays breaks p down into per-day income and expense figures.
func FinanceDays(src Source, p models.Period) []FinanceDay {
	loc := src.Location()
	days := p.Days()
	out := make([]FinanceDay, 0, len(days))
	for _, d := range days {
		s := src.FinancialSummary(models.DayPeriod(d, loc))
		out = append(out, FinanceDay{
			Date:         models.DayKey(d, loc),
			Income:       s.Income,
			PurchaseCost: s.PurchaseCost,
			DamageCost:   s.DamageCost,
			OtherExpense: s.OtherExpense,
			Profit:       s.Profit,
		})
	}
	return out
}

func margin(s ledger.FinancialSummary) decimal.Decimal {
	if !s.Income.IsPositive() {
		return decimal.Zero
	}
	return s.Profit.Div(s.Income).Mul(decimal.NewFromInt(100)).Round(2)
}
