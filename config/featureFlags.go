package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"

	IDStrategyMax      = "max"
	IDStrategySequence = "sequence"
)

// StoreKind selects the KeyValueStore backend.
//
// Set via env:
// - LEDGER_STORE=memory|file|redis|mysql|postgres (default file)
func StoreKind() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_STORE")))
	switch v {
	case StoreMemory, StoreFile, StoreRedis, StoreMySQL, StorePostgres:
		return v
	}
	return StoreFile
}

// DataDir is where the file store keeps its documents.
func DataDir() string {
	if v := strings.TrimSpace(os.Getenv("LEDGER_DATA_DIR")); v != "" {
		return v
	}
	return "data"
}

func RedisKeyPrefix() string {
	if v := strings.TrimSpace(os.Getenv("LEDGER_REDIS_PREFIX")); v != "" {
		return v
	}
	return "shop_ledger"
}

// IDStrategy picks how new product and transaction ids are allocated.
// "max" keeps the max(existing)+1 rule stored data was written with; "sequence"
// uses a persisted counter that never hands out a deleted id again.
func IDStrategy() string {
	if strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_ID_STRATEGY"))) == IDStrategySequence {
		return IDStrategySequence
	}
	return IDStrategyMax
}

// Location is the zone used for day/month bucketing and for merging a picked
// date with the current time of day.
func Location() *time.Location {
	name := strings.TrimSpace(os.Getenv("LEDGER_TIMEZONE"))
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logg.WithField("timezone", name).Warn("config.timezone.invalid")
		return time.UTC
	}
	return loc
}

func LowStockThreshold() int {
	return intFromEnv("LOW_STOCK_THRESHOLD", 20)
}

func ReportCacheEnabled() bool {
	return boolFromEnv("ENABLE_REPORT_CACHE")
}

func ReportCacheTTL() time.Duration {
	secs := intFromEnv("REPORT_CACHE_TTL_SECONDS", 120)
	if secs <= 0 {
		secs = 120
	}
	return time.Duration(secs) * time.Second
}

// ReportSlowThreshold is the build time above which a report is logged as slow.
func ReportSlowThreshold() time.Duration {
	ms := intFromEnv("REPORT_SLOW_MS", 500)
	if ms <= 0 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond
}

// LedgerEventsEnabled turns on publishing of ledger change events to Pub/Sub.
func LedgerEventsEnabled() bool {
	return boolFromEnv("LEDGER_EVENTS_ENABLED")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
