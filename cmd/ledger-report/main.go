package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/models/reports"
	"github.com/mmdatafocus/shop_ledger/workflow"
)

func main() {
	kind := flag.String("kind", "daily", "daily, monthly, dashboard or sales")
	date := flag.String("date", "", "Day (YYYY-MM-DD) for daily, month (YYYY-MM) for monthly/sales. Defaults to today.")
	format := flag.String("format", "json", "json or xlsx (daily/monthly only)")
	out := flag.String("out", "", "Output file (default stdout)")
	flag.Parse()

	if err := run(*kind, *date, *format, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(kind, date, format, out string) (err error) {
	ctx := appctx.Set(context.Background(), appctx.ContextKeyOperator, "ledger-report")
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))
	l, _, err := workflow.OpenLedger(ctx, logger)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	var cache reports.Cache
	if config.ReportCacheEnabled() {
		if err := config.ConnectRedisWithRetry(ctx, 3); err != nil {
			logger.WithError(err).Warn("report cache disabled")
		} else {
			cache = reports.NewRedisCache(config.GetRedisDB(), config.RedisKeyPrefix())
		}
	}

	w := io.Writer(os.Stdout)
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", out, cerr)
			}
		}()
		w = f
	}

	loc := l.Location()
	at := l.Now()
	switch reports.Kind(kind) {
	case reports.KindDaily:
		if date != "" {
			p, err := models.ParseDay(date, loc)
			if err != nil {
				return err
			}
			at = p.Start
		}
		r, err := reports.CachedDaily(ctx, cache, l, at)
		if err := noData(err); err != nil {
			return err
		}
		if format == "xlsx" {
			return reports.WriteDailyExcel(w, r)
		}
		return writeJSON(w, r)
	case reports.KindMonthly:
		if date != "" {
			p, err := models.ParseMonth(date, loc)
			if err != nil {
				return err
			}
			at = p.Start
		}
		r, err := reports.CachedMonthly(ctx, cache, l, at)
		if err := noData(err); err != nil {
			return err
		}
		if format == "xlsx" {
			return reports.WriteMonthlyExcel(w, r)
		}
		return writeJSON(w, r)
	case "dashboard":
		return writeJSON(w, reports.Dashboard(l, config.LowStockThreshold()))
	case "sales":
		p := models.MonthPeriod(at, loc)
		if date != "" {
			if p, err = models.ParseMonth(date, loc); err != nil {
				return err
			}
		}
		t, err := reports.Sales(l, p)
		if err := noData(err); err != nil {
			return err
		}
		return writeJSON(w, t)
	}
	return fmt.Errorf("unknown --kind %q", kind)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// noData reports an empty period on stderr and lets the zero report through.
func noData(err error) error {
	if errors.Is(err, reports.ErrNoData) {
		fmt.Fprintln(os.Stderr, "no transactions in period")
		return nil
	}
	return err
}
