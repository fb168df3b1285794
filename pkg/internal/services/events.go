package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"git.solsynth.dev/hypernet/circle/pkg/internal/metrics"
	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
)

type Event struct {
	Type      string    `json:"type"`
	Resource  string    `json:"resource"`
	Actor     uint      `json:"actor"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddEvent hands a domain event to the publisher, it is a no-op without a
// configured broker.
func AddEvent(ctx context.Context, actor uint, eventType, resource string, data any) error {
	metrics.EventsTotal.WithLabelValues(eventType).Inc()
	if gap.Kf == nil {
		return nil
	}

	raw, err := jsoniter.Marshal(Event{
		Type:      eventType,
		Resource:  resource,
		Actor:     actor,
		Data:      data,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	return gap.Kf.WriteMessages(ctx, kafka.Message{
		Key:   []byte(resource),
		Value: raw,
	})
}
