package ledger

import (
	"context"
	"sync"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
)

const (
	KindProducts     = "products"
	KindTransactions = "transactions"
)

// IDAllocator hands out ids for new products and transactions.
type IDAllocator interface {
	NextID(ctx context.Context, kind string, existing []int) (int, error)
}

// MaxPlusOne returns max(existing)+1, or 1. Deleting the newest record lets
// its id be handed out again.
type MaxPlusOne struct{}

func (MaxPlusOne) NextID(_ context.Context, _ string, existing []int) (int, error) {
	return models.MaxID(existing) + 1, nil
}

// Sequence keeps per-kind counters in the "sequences" document so ids are
// never reused. The counter is seeded from existing ids the first time.
type Sequence struct {
	mu    sync.Mutex
	store storage.KeyValueStore
}

func NewSequence(store storage.KeyValueStore) *Sequence {
	return &Sequence{store: store}
}

func (s *Sequence) NextID(ctx context.Context, kind string, existing []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := map[string]int{}
	if _, err := s.store.Load(ctx, storage.KeySequences, &counters); err != nil {
		return 0, err
	}
	if counters == nil {
		counters = map[string]int{}
	}
	next := max(counters[kind], models.MaxID(existing)) + 1
	counters[kind] = next
	if err := s.store.Save(ctx, storage.KeySequences, counters); err != nil {
		return 0, &models.PersistenceError{Key: storage.KeySequences, Err: err}
	}
	return next, nil
}

// AllocatorFor maps a config.IDStrategy value to an allocator.
func AllocatorFor(strategy string, store storage.KeyValueStore) IDAllocator {
	if strategy == config.IDStrategySequence {
		return NewSequence(store)
	}
	return MaxPlusOne{}
}
