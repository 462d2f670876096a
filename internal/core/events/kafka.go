package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	ListCreated    = "list.created"
	ListDeleted    = "list.deleted"
	ProductCreated = "product.created"
	ProductDeleted = "product.deleted"
)

type Event struct {
	Type    string    `json:"type"`
	UID     string    `json:"uid"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// Nop 未配置 broker 时使用
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close() error                   { return nil }

type KafkaPublisher struct {
	w   *kafka.Writer
	log *zap.Logger
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

// New brokers 为空返回 Nop
func New(brokers []string, topic string, l *zap.Logger) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return &KafkaPublisher{w: NewKafkaWriter(brokers, topic), log: l}
}

// Publish 库已提交后才调用，失败只记日志不回滚
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		p.log.Error("event marshal failed", zap.String("type", e.Type), zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(e.UID), Value: b}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("event publish failed", zap.String("type", e.Type), zap.String("uid", e.UID), zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
