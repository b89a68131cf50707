package reports

import (
	"sort"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

type SalesRow struct {
	TransactionID int             `json:"transactionId"`
	Date          time.Time       `json:"date"`
	ProductID     int             `json:"productId"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Amount        decimal.Decimal `json:"amount"`
	Remark        string          `json:"remark"`
}

type SalesTable struct {
	Rows          []SalesRow      `json:"rows"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalQuantity int             `json:"totalQuantity"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
}

// Sales lists the sales in p, newest first, with totals.
func Sales(src Source, p models.Period) (*SalesTable, error) {
	t := &SalesTable{Rows: []SalesRow{}, TotalAmount: decimal.Zero, AveragePrice: decimal.Zero}
	for _, tx := range src.TransactionsIn(p) {
		if tx.Type != models.TransactionSale {
			continue
		}
		amount := tx.Amount()
		t.Rows = append(t.Rows, SalesRow{
			TransactionID: tx.ID,
			Date:          tx.Date.In(src.Location()),
			ProductID:     tx.PID(),
			Name:          productName(src, tx.PID()),
			Quantity:      tx.Quantity,
			Price:         tx.Price,
			Amount:        amount,
			Remark:        tx.Remark,
		})
		t.TotalAmount = t.TotalAmount.Add(amount)
		t.TotalQuantity += tx.Quantity
	}
	if len(t.Rows) == 0 {
		return t, ErrNoData
	}
	sort.SliceStable(t.Rows, func(i, j int) bool { return t.Rows[i].Date.After(t.Rows[j].Date) })
	if t.TotalQuantity > 0 {
		t.AveragePrice = t.TotalAmount.Div(decimal.NewFromInt(int64(t.TotalQuantity))).Round(2)
	}
	return t, nil
}
