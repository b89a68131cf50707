package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/mmdatafocus/shop_ledger/workflow"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "Show counts only (no writes)")
	confirm := flag.String("confirm", "", "Type RESET to proceed when dry-run=false")
	flag.Parse()

	if !*dryRun && strings.TrimSpace(*confirm) != "RESET" {
		fmt.Fprintln(os.Stderr, "set --confirm=RESET to proceed")
		os.Exit(1)
	}

	ctx := appctx.Set(context.Background(), appctx.ContextKeyOperator, "ledger-reset")
	l, store, err := workflow.OpenLedger(ctx, config.NewLogger(os.Getenv("LOG_LEVEL")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open ledger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("store=%s products=%d transactions=%d\n", config.StoreKind(), len(l.Products()), len(l.Transactions()))
	if *dryRun {
		return
	}

	if err := workflow.ResetStore(ctx, store); err != nil {
		fmt.Fprintf(os.Stderr, "reset failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("cleared %s\n", strings.Join(storage.DocumentKeys, ", "))
}
