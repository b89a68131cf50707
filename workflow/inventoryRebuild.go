package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/metrics"
	"github.com/sirupsen/logrus"
)

const (
	rebuildLockKey = "lock:inv_rebuild"
	rebuildLockTTL = 30 * time.Second
)

var ErrRebuildLocked = errors.New("inventory rebuild already running")

// Locker hands out a named lease. Lock returns ErrRebuildLocked when another
// holder owns key.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client *redislock.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (r *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := r.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrRebuildLocked
	}
	if err != nil {
		return nil, fmt.Errorf("obtain %s: %w", key, err)
	}
	return lock.Release, nil
}

type RebuildOptions struct {
	// ProductIDs limits the rebuild; empty means every product.
	ProductIDs []int
	// DryRun reports mismatches without writing.
	DryRun  bool
	Locker  Locker
	Metrics *metrics.Collector
}

type RebuildResult struct {
	Mismatches []ledger.ReplayMismatch
	Applied    bool
}

// RebuildInventory replays the transaction log and overwrites drifted
// inventory records unless opts.DryRun is set.
func RebuildInventory(ctx context.Context, l *ledger.Ledger, logger *logrus.Logger, opts RebuildOptions) (*RebuildResult, error) {
	if l == nil {
		return nil, errors.New("rebuild inventory: ledger is nil")
	}
	if logger == nil {
		logger = config.GetLogger()
	}
	ctx, cid := appctx.WithCorrelationId(ctx)

	if opts.Locker != nil && !opts.DryRun {
		release, err := opts.Locker.Lock(ctx, rebuildLockKey, rebuildLockTTL)
		if err != nil {
			config.LogError(logger, "inventoryRebuild.go", "RebuildInventory", "Lock", rebuildLockKey, err)
			return nil, err
		}
		defer func() {
			if err := release(ctx); err != nil {
				logger.WithField("correlation_id", cid).WithError(err).Warn("inv.rebuild.release_failed")
			}
		}()
	}

	logger.WithFields(logrus.Fields{
		"product_ids":    opts.ProductIDs,
		"dry_run":        opts.DryRun,
		"revision":       l.Revision(),
		"correlation_id": cid,
	}).Info("inv.rebuild.start")

	var (
		diff []ledger.ReplayMismatch
		err  error
	)
	if opts.DryRun {
		diff, err = l.VerifyReplay()
		if len(opts.ProductIDs) > 0 {
			diff = slices.DeleteFunc(diff, func(m ledger.ReplayMismatch) bool {
				return !slices.Contains(opts.ProductIDs, m.ProductID)
			})
		}
	} else {
		diff, err = l.Rebuild(ctx, opts.ProductIDs...)
	}
	if err != nil {
		config.LogError(logger, "inventoryRebuild.go", "RebuildInventory", "replay", opts.ProductIDs, err)
		return nil, err
	}

	for _, m := range diff {
		logger.WithFields(logrus.Fields{
			"product_id":        m.ProductID,
			"stored_qty":        m.Stored.Quantity,
			"replayed_qty":      m.Replayed.Quantity,
			"stored_avg_cost":   m.Stored.AvgCost.String(),
			"replayed_avg_cost": m.Replayed.AvgCost.String(),
			"correlation_id":    cid,
		}).Warn("inv.rebuild.mismatch")
	}
	if opts.Metrics != nil {
		opts.Metrics.ObserveRebuild(len(diff))
	}
	logger.WithFields(logrus.Fields{
		"mismatches":     len(diff),
		"dry_run":        opts.DryRun,
		"correlation_id": cid,
	}).Info("inv.rebuild.done")

	return &RebuildResult{Mismatches: diff, Applied: !opts.DryRun && len(diff) > 0}, nil
}
