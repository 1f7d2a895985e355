package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olekhv/shoplift/internal/config"
	"github.com/olekhv/shoplift/internal/domain"
)

// Publish must return immediately even when no broker is reachable;
// the delete/edit that triggered the event cannot wait out send retries.
func TestPublishDoesNotBlockOnBrokerOutage(t *testing.T) {
	p := NewProducer(&config.EventsConfig{
		Brokers: []string{"127.0.0.1:1"},
		Topic:   "lifecycle-test",
	})

	start := time.Now()
	err := p.Publish(context.Background(), domain.LifecycleEvent{
		Type:       domain.EventDerivativesCleanupFailed,
		Entity:     "category",
		BaseName:   "deadbeef.webp",
		OccurredAt: time.Now(),
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.Publish(context.Background(), domain.LifecycleEvent{Type: domain.EventDerivativesOrphaned}))
	assert.NoError(t, p.Close())
}
