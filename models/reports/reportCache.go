package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache stores built reports between calls.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RedisCache struct {
	client redis.Cmdable
	prefix string
}

func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return config.GetRedisObject(ctx, c.client, c.key(key), dest)
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return config.SetRedisObject(ctx, c.client, c.key(key), value, ttl)
}

// cacheKey embeds the ledger revision so any mutation invalidates older entries.
func cacheKey(src Source, kind Kind, period string) string {
	return fmt.Sprintf("report:%s:%s:rev%d", kind, period, src.Revision())
}

// CachedDaily is Daily behind cache. Empty days are not cached.
func CachedDaily(ctx context.Context, cache Cache, src Source, day time.Time) (*DailyReport, error) {
	key := cacheKey(src, KindDaily, day.In(src.Location()).Format("2006-01-02"))
	return cached(ctx, cache, key, func() (*DailyReport, error) { return Daily(src, day) })
}

// CachedMonthly is Monthly behind cache. Empty months are not cached.
func CachedMonthly(ctx context.Context, cache Cache, src Source, month time.Time) (*MonthlyReport, error) {
	key := cacheKey(src, KindMonthly, month.In(src.Location()).Format("2006-01"))
	return cached(ctx, cache, key, func() (*MonthlyReport, error) { return Monthly(src, month) })
}

func cached[T any](ctx context.Context, cache Cache, key string, build func() (*T, error)) (*T, error) {
	started := time.Now()
	defer logSlowReport(ctx, key, started)

	if cache == nil || !config.ReportCacheEnabled() {
		return build()
	}

	var hit T
	ok, err := cache.Get(ctx, key, &hit)
	if err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field":          "ReportCache",
			"key":            key,
			"correlation_id": appctx.CorrelationId(ctx),
		}).WithError(err).Warn("report cache read failed")
	}
	if ok {
		return &hit, nil
	}

	out, err := build()
	if err != nil {
		return out, err
	}
	if err := cache.Set(ctx, key, out, config.ReportCacheTTL()); err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field":          "ReportCache",
			"key":            key,
			"correlation_id": appctx.CorrelationId(ctx),
		}).WithError(err).Warn("report cache write failed")
	}
	return out, nil
}

func logSlowReport(ctx context.Context, name string, started time.Time) {
	d := time.Since(started)
	if d < config.ReportSlowThreshold() {
		return
	}
	config.GetLogger().WithFields(logrus.Fields{
		"field":          "SlowReport",
		"name":           name,
		"ms":             d.Milliseconds(),
		"correlation_id": appctx.CorrelationId(ctx),
	}).Warn("slow report")
}
