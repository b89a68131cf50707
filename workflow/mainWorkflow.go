// Package workflow holds maintenance jobs that run against a whole ledger:
// rebuilds, backups, resets and change-event publishing.
package workflow

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/sirupsen/logrus"
)

// OpenLedger opens the configured store and loads a ledger over it with the
// configured location, id strategy and, when enabled, Pub/Sub events. extra
// options are applied last.
func OpenLedger(ctx context.Context, logger *logrus.Logger, extra ...ledger.Option) (*ledger.Ledger, storage.KeyValueStore, error) {
	if logger == nil {
		logger = config.GetLogger()
	}
	store, err := storage.Open(ctx, config.StoreKind())
	if err != nil {
		config.LogError(logger, "mainWorkflow.go", "OpenLedger", "storage.Open", config.StoreKind(), err)
		return nil, nil, err
	}
	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithLocation(config.Location()),
		ledger.WithIDAllocator(ledger.AllocatorFor(config.IDStrategy(), store)),
	}
	if config.LedgerEventsEnabled() {
		opts = append(opts, ledger.WithEventSink(NewPubSubSink(config.LedgerEventTopic(), nil)))
	}
	l, err := ledger.Open(ctx, store, append(opts, extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}
	return l, store, nil
}
