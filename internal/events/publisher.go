package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// Topics for reservation lifecycle events
const (
	TopicBookingEvents = "booking.lifecycle"
	TopicTicketEvents  = "ticket.lifecycle"
	TopicPaymentEvents = "payment.lifecycle"
)

// LifecycleEvent is the envelope published for every status transition
type LifecycleEvent struct {
	EventType  string    `json:"event_type"`
	EntityID   string    `json:"entity_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes lifecycle events. Publishing is best-effort:
// a broker outage never fails the transaction that triggered the event.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *LifecycleEvent)
	Close()
}

// KafkaPublisher implements Publisher on top of franz-go
type KafkaPublisher struct {
	client *kgo.Client
	log    *logger.Logger
}

// KafkaConfig holds producer settings
type KafkaConfig struct {
	Brokers  []string
	ClientID string
}

// NewKafkaPublisher creates a Kafka publisher
func NewKafkaPublisher(cfg *KafkaConfig, log *logger.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, log: log}, nil
}

// Publish produces the event asynchronously, keyed by entity ID so all
// transitions of one entity land on the same partition in order.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event *LifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to encode lifecycle event", zap.Error(err))
		return
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.EntityID),
		Value: payload,
	}

	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.log.Error("failed to publish lifecycle event",
				zap.String("topic", topic),
				zap.String("entity_id", event.EntityID),
				zap.Error(err),
			)
		}
	})
}

// Close flushes pending records and closes the client
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.log.Warn("failed to flush kafka producer", zap.Error(err))
	}
	p.client.Close()
}

// NopPublisher discards events. Used when Kafka is not configured and in
// tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *LifecycleEvent) {}
func (NopPublisher) Close()                                           {}
