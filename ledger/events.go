package ledger

import (
	"context"
	"time"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/sirupsen/logrus"
)

const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionRebuilt  = "rebuilt"
	RefTransaction = "transaction"
	RefProduct     = "product"
	RefInventory   = "inventory"
)

// ChangeEvent describes one committed mutation. Presentation layers use it to
// decide what to redraw.
type ChangeEvent struct {
	Action        string
	ReferenceType string
	ReferenceID   int
	OccurredAt    time.Time
	Revision      uint64
	CorrelationID string
	Payload       any
}

type EventSink interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, ev ChangeEvent) error

func (f EventSinkFunc) Publish(ctx context.Context, ev ChangeEvent) error { return f(ctx, ev) }

// Observer receives counters for committed and failed mutations.
type Observer interface {
	ObserveMutation(reference, action string, revision uint64)
	ObservePersistenceFailure(key string)
}

// emit runs outside the ledger lock. Sink errors are logged only.
func (l *Ledger) emit(ctx context.Context, ev ChangeEvent) {
	if l.observer != nil {
		l.observer.ObserveMutation(ev.ReferenceType, ev.Action, ev.Revision)
	}
	if l.sink == nil {
		return
	}
	ev.OccurredAt = l.clock()
	ev.CorrelationID = appctx.CorrelationId(ctx)
	if err := l.sink.Publish(ctx, ev); err != nil {
		config.LogError(l.logger, "ledger", "emit", ev.ReferenceType+"."+ev.Action, logrus.Fields{
			"referenceId": ev.ReferenceID,
			"revision":    ev.Revision,
		}, err)
	}
}
