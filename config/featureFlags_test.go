package config

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestStoreKind(t *testing.T) {
	cases := map[string]string{
		"":         StoreFile,
		"memory":   StoreMemory,
		" Redis ":  StoreRedis,
		"mysql":    StoreMySQL,
		"postgres": StorePostgres,
		"mongo":    StoreFile,
	}
	for in, want := range cases {
		t.Setenv("LEDGER_STORE", in)
		if got := StoreKind(); got != want {
			t.Fatalf("LEDGER_STORE=%q: got %q want %q", in, got, want)
		}
	}
}

func TestIDStrategy(t *testing.T) {
	t.Setenv("LEDGER_ID_STRATEGY", "")
	if IDStrategy() != IDStrategyMax {
		t.Fatalf("default should be max")
	}
	t.Setenv("LEDGER_ID_STRATEGY", "SEQUENCE")
	if IDStrategy() != IDStrategySequence {
		t.Fatalf("expected sequence")
	}
}

func TestLocation(t *testing.T) {
	t.Setenv("LEDGER_TIMEZONE", "")
	if Location() != time.UTC {
		t.Fatalf("default should be UTC")
	}
	t.Setenv("LEDGER_TIMEZONE", "Not/AZone")
	if Location() != time.UTC {
		t.Fatalf("invalid zone should fall back to UTC")
	}
	t.Setenv("LEDGER_TIMEZONE", "Asia/Yangon")
	if got := Location().String(); got != "Asia/Yangon" {
		t.Fatalf("got %s", got)
	}
}

func TestReportCacheSettings(t *testing.T) {
	t.Setenv("ENABLE_REPORT_CACHE", "yes")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "-4")
	if !ReportCacheEnabled() {
		t.Fatalf("expected cache enabled")
	}
	if ReportCacheTTL() != 120*time.Second {
		t.Fatalf("non-positive ttl should use default, got %s", ReportCacheTTL())
	}
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "30")
	if ReportCacheTTL() != 30*time.Second {
		t.Fatalf("got %s", ReportCacheTTL())
	}
	t.Setenv("REPORT_SLOW_MS", "abc")
	if ReportSlowThreshold() != 500*time.Millisecond {
		t.Fatalf("got %s", ReportSlowThreshold())
	}
}

func TestLowStockThreshold(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	if LowStockThreshold() != 20 {
		t.Fatalf("default should be 20")
	}
	t.Setenv("LOW_STOCK_THRESHOLD", "8")
	if LowStockThreshold() != 8 {
		t.Fatalf("got %d", LowStockThreshold())
	}
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_USER", "pos")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("DB_HOST", "10.0.0.5")
	t.Setenv("DB_PORT", "3306")
	dsn := DatabaseDSN()
	if !strings.HasPrefix(dsn, "pos:secret@tcp(10.0.0.5:3306)/shop") || !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("unexpected dsn %s", dsn)
	}

	t.Setenv("DB_HOST", "/cloudsql/proj:region:inst")
	if dsn := DatabaseDSN(); !strings.Contains(dsn, "@unix(/cloudsql/proj:region:inst)/shop") {
		t.Fatalf("unexpected socket dsn %s", dsn)
	}
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("PG_DSN", "")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_USER", "pos")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_NAME", "shop")
	t.Setenv("PG_SSLMODE", "")
	want := "host=db port=5432 user=pos password=secret dbname=shop sslmode=disable"
	if got := PostgresDSN(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	t.Setenv("PG_DSN", "postgres://pos@db/shop")
	if got := PostgresDSN(); got != "postgres://pos@db/shop" {
		t.Fatalf("PG_DSN not preferred: %q", got)
	}
}
