package reports

import (
	"sort"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

type DailyRow struct {
	TransactionID int                    `json:"transactionId"`
	Time          time.Time              `json:"time"`
	Type          models.TransactionType `json:"type"`
	Name          string                 `json:"name"`
	Quantity      int                    `json:"quantity"`
	Unit          string                 `json:"unit"`
	UnitPrice     decimal.Decimal        `json:"unitPrice"`
	Amount        decimal.Decimal        `json:"amount"`
	Remark        string                 `json:"remark"`
}

type DailyReport struct {
	Date           string          `json:"date"`
	Rows           []DailyRow      `json:"rows"`
	TotalSales     decimal.Decimal `json:"totalSales"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	NetProfit      decimal.Decimal `json:"netProfit"`
	SalesByProduct []TopProduct    `json:"salesByProduct"`
}

// Daily lists the day's transactions in time order. TotalCost counts
// purchases and expenses; damage rows are listed but not counted.
func Daily(src Source, day time.Time) (*DailyReport, error) {
	loc := src.Location()
	period := models.DayPeriod(day, loc)
	r := &DailyReport{
		Date:       models.DayKey(period.Start, loc),
		Rows:       []DailyRow{},
		TotalSales: decimal.Zero,
		TotalCost:  decimal.Zero,
		NetProfit:  decimal.Zero,
	}

	txs := src.TransactionsIn(period)
	if len(txs) == 0 {
		r.SalesByProduct = []TopProduct{}
		return r, ErrNoData
	}

	var byProduct []TopProduct
	pos := make(map[int]int)
	for _, tx := range txs {
		name, unit := describe(src, tx)
		amount := tx.Amount()
		r.Rows = append(r.Rows, DailyRow{
			TransactionID: tx.ID,
			Time:          tx.Date.In(loc),
			Type:          tx.Type,
			Name:          name,
			Quantity:      tx.Quantity,
			Unit:          unit,
			UnitPrice:     tx.Price,
			Amount:        amount,
			Remark:        tx.Remark,
		})

		switch tx.Type {
		case models.TransactionSale:
			r.TotalSales = r.TotalSales.Add(amount)
			i, ok := pos[tx.PID()]
			if !ok {
				i = len(byProduct)
				pos[tx.PID()] = i
				byProduct = append(byProduct, TopProduct{ProductID: tx.PID(), Name: name, Amount: decimal.Zero})
			}
			byProduct[i].Quantity += tx.Quantity
			byProduct[i].Amount = byProduct[i].Amount.Add(amount)
		case models.TransactionPurchase, models.TransactionExpense:
			r.TotalCost = r.TotalCost.Add(amount)
		case models.TransactionDamage:
		}
	}
	sort.SliceStable(byProduct, func(i, j int) bool { return byProduct[i].Amount.GreaterThan(byProduct[j].Amount) })
	if byProduct == nil {
		byProduct = []TopProduct{}
	}
	r.SalesByProduct = byProduct
	r.NetProfit = r.TotalSales.Sub(r.TotalCost)
	return r, nil
}
