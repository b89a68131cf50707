package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	CostPrice decimal.Decimal `json:"costPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
}

type ProductInput struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Category  string          `json:"category" validate:"max=50"`
	Unit      string          `json:"unit" validate:"required,max=20"`
	CostPrice decimal.Decimal `json:"costPrice" validate:"gte=0"`
	SellPrice decimal.Decimal `json:"sellPrice" validate:"gte=0"`
}

// Normalize trims the text fields in place.
func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Unit = strings.TrimSpace(in.Unit)
}

func (p *Product) apply(in ProductInput) {
	p.Name = in.Name
	p.Category = in.Category
	p.Unit = in.Unit
	p.CostPrice = in.CostPrice
	p.SellPrice = in.SellPrice
}

// NewProduct builds a product from validated input.
func NewProduct(id int, in ProductInput) Product {
	p := Product{ID: id}
	p.apply(in)
	return p
}

// Replace overwrites every mutable field; the id is kept.
func (p *Product) Replace(in ProductInput) {
	p.apply(in)
}
