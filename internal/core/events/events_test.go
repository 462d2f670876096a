package events

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewWithoutBrokersIsNop(t *testing.T) {
	p := New(nil, "pantry.events", zap.NewNop())
	if _, ok := p.(Nop); !ok {
		t.Fatalf("publisher = %T, want Nop", p)
	}
	p.Publish(context.Background(), Event{Type: ListCreated, UID: "123456"})
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewWithBrokersIsKafka(t *testing.T) {
	p := New([]string{"localhost:9092"}, "pantry.events", zap.NewNop())
	kp, ok := p.(*KafkaPublisher)
	if !ok {
		t.Fatalf("publisher = %T, want *KafkaPublisher", p)
	}
	if kp.w.Topic != "pantry.events" {
		t.Errorf("topic = %q", kp.w.Topic)
	}
	_ = p.Close()
}
