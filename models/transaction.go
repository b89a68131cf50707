package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionPurchase TransactionType = "purchase"
	TransactionDamage   TransactionType = "damage"
	TransactionExpense  TransactionType = "expense"
)

var TransactionTypes = []TransactionType{TransactionSale, TransactionPurchase, TransactionDamage, TransactionExpense}

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
	}
	return t, nil
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionDamage, TransactionExpense:
		return true
	}
	return false
}

// AffectsStock reports whether the type carries a product and moves inventory.
func (t TransactionType) AffectsStock() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionDamage:
		return true
	case TransactionExpense:
		return false
	}
	return false
}

// Outgoing is true for types that take units off the shelf.
func (t TransactionType) Outgoing() bool {
	return t == TransactionSale || t == TransactionDamage
}

type Transaction struct {
	ID          int             `json:"id"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	ProductID   *int            `json:"productId"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Remark      string          `json:"remark"`
	ExpenseType string          `json:"expenseType,omitempty"`
}

// Amount is price times quantity.
func (t Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

func (t Transaction) IsForProduct(productID int) bool {
	return t.ProductID != nil && *t.ProductID == productID
}

// PID returns the product id, or 0 for expenses.
func (t Transaction) PID() int {
	if t.ProductID == nil {
		return 0
	}
	return *t.ProductID
}

// Clone copies t including its product id pointer.
func (t Transaction) Clone() Transaction {
	if t.ProductID != nil {
		id := *t.ProductID
		t.ProductID = &id
	}
	return t
}

type TransactionInput struct {
	// Date is empty (now), a calendar day "2006-01-02" or an RFC3339 timestamp.
	Date        string
	Type        TransactionType
	ProductID   *int
	Quantity    int
	Price       decimal.Decimal
	Remark      string
	ExpenseType string
	// ConfirmOversell accepts a sale or damage that drives stock negative.
	ConfirmOversell bool
}

// IntPtr is a helper for optional product ids.
func IntPtr(v int) *int { return &v }

const dayLayout = "2006-01-02"

// ResolveDate turns an input date into a timestamp. A bare day is combined
// with now's time of day so same-day entries keep their entry order.
func ResolveDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	if s == "" {
		return now, nil
	}
	if day, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return time.Date(day.Year(), day.Month(), day.Day(),
			now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), loc), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Time{}, &ValidationError{Field: "date", Message: "must be YYYY-MM-DD or RFC3339"}
}
