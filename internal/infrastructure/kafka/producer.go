package kafka

import (
	"context"
	"encoding/json"
	"time"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/config"
	"github.com/olekhv/shoplift/internal/domain"
)

// Producer publishes image-lifecycle events so operators can detect
// drift between records and derivative files. Publishing is best effort:
// the request that triggered an event never fails on a publish error and
// never waits for the broker, so a broker outage cannot stall responses.
type Producer struct {
	client *wbfkafka.Producer
	topic  string
}

// sendTimeout bounds the detached send including its retries.
const sendTimeout = 10 * time.Second

func NewProducer(cfg *config.EventsConfig) *Producer {
	client := wbfkafka.NewProducer(cfg.Brokers, cfg.Topic)
	zlog.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka event producer initialized")
	return &Producer{
		client: client,
		topic:  cfg.Topic,
	}
}

func (p *Producer) Publish(ctx context.Context, event domain.LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("type", event.Type).
			Str("base_name", event.BaseName).
			Msg("Failed to marshal lifecycle event")
		return err
	}

	// The send runs detached from the request context so retries and
	// broker outages never delay the response that triggered the event.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		strategy := retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2.0,
		}
		if err := p.client.SendWithRetry(sendCtx, strategy, nil, data); err != nil {
			zlog.Logger.Error().
				Err(err).
				Str("type", event.Type).
				Str("base_name", event.BaseName).
				Msg("Failed to publish lifecycle event")
			return
		}

		zlog.Logger.Info().
			Str("type", event.Type).
			Str("entity", event.Entity).
			Str("base_name", event.BaseName).
			Msg("Lifecycle event published")
	}()

	return nil
}

func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	zlog.Logger.Info().Msg("Kafka producer closed")
	return nil
}

// NoopPublisher is used when events are disabled in config and in tests.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (*NoopPublisher) Publish(ctx context.Context, event domain.LifecycleEvent) error { return nil }

func (*NoopPublisher) Close() error { return nil }
