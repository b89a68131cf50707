package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/workflow"
)

func main() {
	var f workflow.TransactionFields
	flag.StringVar(&f.Type, "type", "", "sale, purchase, damage or expense")
	flag.IntVar(&f.ProductID, "product-id", 0, "Product id (not used for expense)")
	flag.IntVar(&f.Quantity, "quantity", 0, "Units (expense is always 1)")
	flag.StringVar(&f.Price, "price", "", "Unit price, e.g. 20,000 or 12.50")
	flag.StringVar(&f.Date, "date", "", "YYYY-MM-DD or RFC3339 (default now)")
	flag.StringVar(&f.Remark, "remark", "", "Optional note")
	flag.StringVar(&f.ExpenseType, "expense-type", "", "Expense category (expense only)")
	flag.BoolVar(&f.ConfirmOversell, "confirm-oversell", false, "Record a sale or damage even when stock runs negative")
	flag.Parse()

	ctx := appctx.Set(context.Background(), appctx.ContextKeyOperator, "ledger-append")
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))
	l, _, err := workflow.OpenLedger(ctx, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open ledger: %v\n", err)
		os.Exit(1)
	}

	tx, err := workflow.RecordTransaction(ctx, l, logger, f)
	var short *models.ShortfallWarning
	if errors.As(err, &short) {
		fmt.Fprintf(os.Stderr, "%v; rerun with --confirm-oversell to record anyway\n", short)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "append failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("recorded id=%d type=%s amount=%s\n", tx.ID, tx.Type, tx.Amount())
}
