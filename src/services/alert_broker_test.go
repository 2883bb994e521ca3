package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/services"
	"cryptotracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []schemas.RiskAlert) []schemas.RiskAlert {
	t.Helper()
	select {
	case alerts, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return alerts
	case <-time.After(2 * time.Second):
		t.Fatal("no alerts received")
		return nil
	}
}

func TestMemoryAlertBroker(t *testing.T) {
	broker := services.NewMemoryAlertBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	latest, err := broker.Latest(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, latest)

	sub, err := broker.Subscribe(ctx, "k")
	require.NoError(t, err)
	other, err := broker.Subscribe(ctx, "other")
	require.NoError(t, err)

	alerts := []schemas.RiskAlert{{ID: "1", Level: schemas.RiskHigh, AssetSymbol: "ETH"}}
	require.NoError(t, broker.Publish(ctx, "k", alerts))

	assert.Equal(t, alerts, receive(t, sub))
	latest, err = broker.Latest(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, alerts, latest)

	select {
	case <-other:
		t.Fatal("publication leaked to another key")
	default:
	}

	cancel()
	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}
	assert.NoError(t, broker.Publish(context.Background(), "k", alerts))
}

// fakePubSub is an in-memory stand-in for the Redis handler.
type fakePubSub struct {
	*utils.MemoryCacheHandler

	mutex    sync.Mutex
	channels map[string][]chan []byte
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{MemoryCacheHandler: utils.NewMemoryCacheHandler(), channels: make(map[string][]chan []byte)}
}

func (f *fakePubSub) Publish(_ context.Context, channel string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, ch := range f.channels[channel] {
		ch <- data
	}
	return nil
}

func (f *fakePubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte, 4)
	f.mutex.Lock()
	f.channels[channel] = append(f.channels[channel], ch)
	f.mutex.Unlock()
	return ch, nil
}

func TestRedisAlertBroker(t *testing.T) {
	pubsub := newFakePubSub()
	broker := services.NewRedisAlertBroker(pubsub, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	latest, err := broker.Latest(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, latest)

	sub, err := broker.Subscribe(ctx, "k")
	require.NoError(t, err)

	createdAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	alerts := []schemas.RiskAlert{{ID: "1", Level: schemas.RiskMedium, Title: "Moderate Risk", AssetSymbol: "SOL", CreatedAt: createdAt}}
	require.NoError(t, broker.Publish(ctx, "k", alerts))

	assert.Equal(t, alerts, receive(t, sub))

	latest, err = broker.Latest(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, alerts, latest)

	// malformed payloads are skipped
	pubsub.mutex.Lock()
	pubsub.channels["alerts:k"][0] <- []byte("not json")
	pubsub.mutex.Unlock()
	require.NoError(t, broker.Publish(ctx, "k", nil))
	assert.Empty(t, receive(t, sub))
}
