package workflow

import (
	"context"
	"encoding/json"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/ledger"
)

// PublishFunc sends one message to a topic and returns its server ID.
type PublishFunc func(ctx context.Context, topic string, msg config.LedgerEventMessage) (string, error)

// PubSubSink forwards ledger change events to a Pub/Sub topic.
type PubSubSink struct {
	Topic   string
	publish PublishFunc
}

var _ ledger.EventSink = (*PubSubSink)(nil)

// NewPubSubSink publishes through config.PublishLedgerEvent. A nil publish
// is for the default; tests pass their own.
func NewPubSubSink(topic string, publish PublishFunc) *PubSubSink {
	if publish == nil {
		publish = config.PublishLedgerEvent
	}
	return &PubSubSink{Topic: topic, publish: publish}
}

func (s *PubSubSink) Publish(ctx context.Context, ev ledger.ChangeEvent) error {
	msg := config.LedgerEventMessage{
		Action:        ev.Action,
		ReferenceType: ev.ReferenceType,
		ReferenceId:   ev.ReferenceID,
		OccurredAt:    ev.OccurredAt,
		Revision:      ev.Revision,
		CorrelationId: ev.CorrelationID,
		Operator:      appctx.Operator(ctx),
	}
	if msg.CorrelationId == "" {
		msg.CorrelationId = appctx.CorrelationId(ctx)
	}
	if ev.Payload != nil {
		body, err := json.Marshal(ev.Payload)
		if err != nil {
			return err
		}
		msg.NewObj = body
	}
	_, err := s.publish(ctx, s.Topic, msg)
	return err
}
