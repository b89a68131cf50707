package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/metrics"
	"github.com/mmdatafocus/shop_ledger/workflow"
)

func main() {
	productIDs := flag.String("product-ids", "", "Optional: comma separated product ids (default all)")
	dryRun := flag.Bool("dry-run", true, "Report mismatches only (no writes)")
	noLock := flag.Bool("no-lock", false, "Skip the redis rebuild lock")
	metricsFile := flag.String("metrics-file", "", "Optional: write Prometheus textfile metrics here")
	flag.Parse()

	ids, err := parseIDs(*productIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --product-ids: %v\n", err)
		os.Exit(1)
	}

	ctx, cid := appctx.WithCorrelationId(appctx.Set(context.Background(), appctx.ContextKeyOperator, "ledger-rebuild"))
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))

	collector := metrics.NewCollector("")
	l, _, err := workflow.OpenLedger(ctx, logger, ledger.WithObserver(collector))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open ledger: %v\n", err)
		os.Exit(1)
	}

	opts := workflow.RebuildOptions{ProductIDs: ids, DryRun: *dryRun, Metrics: collector}
	if !*dryRun && !*noLock {
		if err := config.ConnectRedisWithRetry(ctx, 3); err != nil {
			fmt.Fprintf(os.Stderr, "redis lock unavailable (use --no-lock to skip): %v\n", err)
			os.Exit(1)
		}
		opts.Locker = workflow.NewRedisLocker(config.GetRedisLock())
	}

	res, err := workflow.RebuildInventory(ctx, l, logger, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
		os.Exit(1)
	}
	for _, m := range res.Mismatches {
		fmt.Printf("product=%d stored=%d@%s replayed=%d@%s\n",
			m.ProductID, m.Stored.Quantity, m.Stored.AvgCost, m.Replayed.Quantity, m.Replayed.AvgCost)
	}
	fmt.Printf("mismatches=%d applied=%t correlation_id=%s\n", len(res.Mismatches), res.Applied, cid)

	if *metricsFile != "" {
		if err := collector.WriteTextfile(*metricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "write metrics: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
