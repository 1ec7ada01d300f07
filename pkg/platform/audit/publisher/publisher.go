// Package publisher ships audit events to Kafka, one topic per category.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"mintguard/pkg/platform/audit"
)

// Kafka publishes audit events with at-least-once semantics. Produces are
// asynchronous; Close flushes whatever is still buffered.
type Kafka struct {
	client      *kgo.Client
	topicPrefix string
	logger      *slog.Logger
}

type Option func(*Kafka)

func WithLogger(logger *slog.Logger) Option {
	return func(k *Kafka) { k.logger = logger }
}

// NewKafka connects to the given seed brokers. topicPrefix is combined with
// the event category, e.g. "mintguard.audit" -> "mintguard.audit.compliance".
func NewKafka(seeds []string, topicPrefix string, opts ...Option) (*Kafka, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("at least one seed broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	k := &Kafka{client: client, topicPrefix: topicPrefix, logger: slog.Default()}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

func (k *Kafka) Topic(category audit.EventCategory) string {
	return k.topicPrefix + "." + string(category)
}

func (k *Kafka) Publish(ctx context.Context, ev audit.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	rec := &kgo.Record{
		Topic: k.Topic(ev.Category),
		// Keying by anchor keeps one asset's trail ordered within a
		// partition.
		Key:   []byte(ev.Anchor),
		Value: value,
	}
	k.client.Produce(ctx, rec, func(r *kgo.Record, err error) {
		if err != nil {
			k.logger.Error("audit event delivery failed",
				"topic", r.Topic, "anchor", string(r.Key), "error", err)
		}
	})
	return nil
}

// Close flushes buffered events and releases the client.
func (k *Kafka) Close(ctx context.Context) error {
	defer k.client.Close()
	if err := k.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush audit events: %w", err)
	}
	return nil
}
