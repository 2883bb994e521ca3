package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cryptotracker/src/schemas"
	"cryptotracker/src/utils"
)

// AlertBroker distributes the risk alerts of committed portfolio passes, keyed by
// session. Subscribers receive every later publication until their context ends.
type AlertBroker interface {
	Publish(ctx context.Context, key string, alerts []schemas.RiskAlert) error
	Latest(ctx context.Context, key string) ([]schemas.RiskAlert, error)
	Subscribe(ctx context.Context, key string) (<-chan []schemas.RiskAlert, error)
}

const subscriberBuffer = 4

type MemoryAlertBroker struct {
	mutex       sync.Mutex
	latest      map[string][]schemas.RiskAlert
	subscribers map[string]map[chan []schemas.RiskAlert]struct{}
}

func NewMemoryAlertBroker() *MemoryAlertBroker {
	return &MemoryAlertBroker{
		latest:      make(map[string][]schemas.RiskAlert),
		subscribers: make(map[string]map[chan []schemas.RiskAlert]struct{}),
	}
}

// Publish never blocks; a subscriber whose buffer is full misses the publication.
func (b *MemoryAlertBroker) Publish(ctx context.Context, key string, alerts []schemas.RiskAlert) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.latest[key] = alerts
	for ch := range b.subscribers[key] {
		select {
		case ch <- alerts:
		default:
			utils.LoggerFromContext(ctx).Warnf("alert subscriber is lagging, dropping publication")
		}
	}
	return nil
}

func (b *MemoryAlertBroker) Latest(_ context.Context, key string) ([]schemas.RiskAlert, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.latest[key], nil
}

func (b *MemoryAlertBroker) Subscribe(ctx context.Context, key string) (<-chan []schemas.RiskAlert, error) {
	ch := make(chan []schemas.RiskAlert, subscriberBuffer)

	b.mutex.Lock()
	if b.subscribers[key] == nil {
		b.subscribers[key] = make(map[chan []schemas.RiskAlert]struct{})
	}
	b.subscribers[key][ch] = struct{}{}
	b.mutex.Unlock()

	go func() {
		<-ctx.Done()
		b.mutex.Lock()
		defer b.mutex.Unlock()
		delete(b.subscribers[key], ch)
		if len(b.subscribers[key]) == 0 {
			delete(b.subscribers, key)
		}
		close(ch)
	}()
	return ch, nil
}

// PubSubHandlerI is the subset of the Redis handler the Redis broker relies on.
type PubSubHandlerI interface {
	utils.CacheHandlerI
	Publish(ctx context.Context, channel string, value interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RedisAlertBroker keeps the latest alerts of each session in Redis and mirrors every
// publication on a Redis channel so all service instances see it.
type RedisAlertBroker struct {
	handler PubSubHandlerI
	ttl     time.Duration
}

func NewRedisAlertBroker(handler PubSubHandlerI, ttl time.Duration) *RedisAlertBroker {
	return &RedisAlertBroker{handler: handler, ttl: ttl}
}

func alertsChannel(key string) string {
	return "alerts:" + key
}

func latestAlertsKey(key string) string {
	return "alerts:latest:" + key
}

func (b *RedisAlertBroker) Publish(ctx context.Context, key string, alerts []schemas.RiskAlert) error {
	if err := b.handler.Set(ctx, latestAlertsKey(key), alerts, b.ttl); err != nil {
		return fmt.Errorf("store latest alerts: %w", err)
	}
	if err := b.handler.Publish(ctx, alertsChannel(key), alerts); err != nil {
		return fmt.Errorf("publish alerts: %w", err)
	}
	return nil
}

func (b *RedisAlertBroker) Latest(ctx context.Context, key string) ([]schemas.RiskAlert, error) {
	var alerts []schemas.RiskAlert
	err := b.handler.Get(ctx, latestAlertsKey(key), &alerts)
	if errors.Is(err, utils.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read latest alerts: %w", err)
	}
	return alerts, nil
}

func (b *RedisAlertBroker) Subscribe(ctx context.Context, key string) (<-chan []schemas.RiskAlert, error) {
	raw, err := b.handler.Subscribe(ctx, alertsChannel(key))
	if err != nil {
		return nil, err
	}

	logger := utils.LoggerFromContext(ctx)
	out := make(chan []schemas.RiskAlert, subscriberBuffer)
	go func() {
		defer close(out)
		for payload := range raw {
			var alerts []schemas.RiskAlert
			if err := json.Unmarshal(payload, &alerts); err != nil {
				logger.Warnf("discarding malformed alerts payload: %v", err)
				continue
			}
			select {
			case out <- alerts:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

var (
	_ AlertBroker = (*MemoryAlertBroker)(nil)
	_ AlertBroker = (*RedisAlertBroker)(nil)
)
