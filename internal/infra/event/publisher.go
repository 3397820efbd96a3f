package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderPlaced        = "order-placed"
	TopicOrderCancelled     = "order-cancelled"
	TopicOrderStatusUpdated = "order-status-updated"
)

// 注文イベントの中身
type OrderEvent struct {
	OrderID     int64             `json:"order_id"`
	CustomerID  int64             `json:"customer_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount string            `json:"total_amount"`
	ActorUserID int64             `json:"actor_user_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func NewOrderEvent(o model.Order, actorUserID int64) OrderEvent {
	return OrderEvent{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ActorUserID: actorUserID,
		OccurredAt:  time.Now().UTC(),
	}
}

// Publisher は注文イベントの送信先
type Publisher interface {
	PublishOrder(ctx context.Context, topic string, ev OrderEvent) error
	Close() error
}

// kafka.Writer の必要な部分だけ
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher は topic をメッセージごとに指定する Writer を作る
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

// 同じ注文のイベントは同じパーティションに入る（key=order_id）
func (p *KafkaPublisher) PublishOrder(ctx context.Context, topic string, ev OrderEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: value,
		Time:  ev.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KAFKA_BROKERS 未設定時
type NoopPublisher struct{}

func (NoopPublisher) PublishOrder(context.Context, string, OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                           { return nil }

// New はブローカー未設定なら NoopPublisher を返す
func New(brokers []string) Publisher {
	if len(brokers) == 0 {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(brokers)
}
