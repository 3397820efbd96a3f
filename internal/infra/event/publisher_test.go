package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shadinbyte/shopease/internal/domain/model"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrder(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	o := model.Order{ID: 42, CustomerID: 7, Status: model.OrderStatusPending, TotalAmount: decimal.RequireFromString("25")}
	require.NoError(t, p.PublishOrder(context.Background(), TopicOrderPlaced, NewOrderEvent(o, 3)))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, TopicOrderPlaced, msg.Topic)
	assert.Equal(t, "42", string(msg.Key))

	var got OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, int64(42), got.OrderID)
	assert.Equal(t, int64(7), got.CustomerID)
	assert.Equal(t, "25.00", got.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNew_NoBrokersIsNoop(t *testing.T) {
	p := New(nil)
	_, ok := p.(NoopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.PublishOrder(context.Background(), TopicOrderCancelled, OrderEvent{}))
}
