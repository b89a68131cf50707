package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryRecord struct {
	ProductID  int             `json:"productId"`
	Quantity   int             `json:"quantity"`
	AvgCost    decimal.Decimal `json:"avgCost"`
	LastUpdate time.Time       `json:"lastUpdate"`
}

// Value is the record's stock valued at average cost.
func (r InventoryRecord) Value() decimal.Decimal {
	return r.AvgCost.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

type StockStatus string

const (
	StockNegative StockStatus = "negative"
	StockCritical StockStatus = "critical"
	StockWarning  StockStatus = "warning"
	StockLow      StockStatus = "low"
	StockNormal   StockStatus = "normal"
)

func ClassifyStock(quantity int) StockStatus {
	switch {
	case quantity < 0:
		return StockNegative
	case quantity <= 5:
		return StockCritical
	case quantity <= 10:
		return StockWarning
	case quantity <= 20:
		return StockLow
	default:
		return StockNormal
	}
}
