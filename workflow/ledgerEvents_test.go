package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mmdatafocus/shop_ledger/appctx"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/ledger"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/stretchr/testify/require"
)

func TestPubSubSink_PublishesLedgerChanges(t *testing.T) {
	var sent []config.LedgerEventMessage
	var topics []string
	sink := NewPubSubSink("ledger-events", func(_ context.Context, topic string, msg config.LedgerEventMessage) (string, error) {
		topics = append(topics, topic)
		sent = append(sent, msg)
		return "msg-1", nil
	})
	l := openLedger(t, storage.NewMemoryStore(), ledger.WithEventSink(sink))
	ctx := appctx.Set(context.Background(), appctx.ContextKeyCorrelationId, "cid-7")
	ctx = appctx.Set(ctx, appctx.ContextKeyOperator, "cashier-2")

	p, err := l.Catalog().CreateProduct(ctx, models.ProductInput{Name: "Oil", Unit: "bottle", CostPrice: dec("10"), SellPrice: dec("15")})
	require.NoError(t, err)

	require.Len(t, sent, 1)
	require.Equal(t, []string{"ledger-events"}, topics)
	msg := sent[0]
	require.Equal(t, ledger.ActionCreated, msg.Action)
	require.Equal(t, ledger.RefProduct, msg.ReferenceType)
	require.Equal(t, p.ID, msg.ReferenceId)
	require.Equal(t, "cid-7", msg.CorrelationId)
	require.Equal(t, "cashier-2", msg.Operator)
	require.Equal(t, l.Revision(), msg.Revision)

	var body models.Product
	require.NoError(t, json.Unmarshal(msg.NewObj, &body))
	require.Equal(t, "Oil", body.Name)
}

func TestPubSubSink_ErrorIsReturned(t *testing.T) {
	sink := NewPubSubSink("t", func(context.Context, string, config.LedgerEventMessage) (string, error) {
		return "", errors.New("topic not found")
	})
	err := sink.Publish(context.Background(), ledger.ChangeEvent{Action: ledger.ActionDeleted, ReferenceType: ledger.RefTransaction, ReferenceID: 3})
	require.EqualError(t, err, "topic not found")
}
