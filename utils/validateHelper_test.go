package utils

import (
	"errors"
	"testing"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

func TestValidateStruct_ProductInput(t *testing.T) {
	ok := models.ProductInput{Name: "Cola", Unit: "can", CostPrice: decimal.NewFromInt(2), SellPrice: decimal.NewFromInt(3)}
	if err := ValidateStruct(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name  string
		in    models.ProductInput
		field string
	}{
		{"missing name", models.ProductInput{Unit: "can"}, "name"},
		{"missing unit", models.ProductInput{Name: "Cola"}, "unit"},
		{"negative cost", models.ProductInput{Name: "Cola", Unit: "can", CostPrice: decimal.NewFromInt(-1)}, "costPrice"},
		{"negative sell", models.ProductInput{Name: "Cola", Unit: "can", SellPrice: decimal.RequireFromString("-0.01")}, "sellPrice"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateStruct(c.in)
			var ve *models.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != c.field {
				t.Fatalf("expected field %s, got %s", c.field, ve.Field)
			}
		})
	}
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	err := ValidateStruct(models.ProductInput{CostPrice: decimal.NewFromInt(-1)})
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"name":      "is required",
		"unit":      "is required",
		"costPrice": "must be >= 0",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Fatalf("field %s: got %q want %q (all: %v)", field, ve.Fields[field], msg, ve.Fields)
		}
	}
	if _, ok := ve.Fields["sellPrice"]; ok {
		t.Fatalf("sellPrice is valid but was reported: %v", ve.Fields)
	}
}

func TestProcessValidationErrors_IgnoresOtherErrors(t *testing.T) {
	if got := ProcessValidationErrors(errors.New("boom")); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
