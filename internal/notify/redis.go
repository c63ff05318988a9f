package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/millops/config"
)

// Channel is the Redis pub/sub channel carrying change events
const Channel = "millops:changes"

// RedisBus relays change events between application instances over
// Redis pub/sub. Events published by this instance are replayed to
// local subscribers by the notifying store already, so the receive
// loop drops events whose origin matches its own.
type RedisBus struct {
	client *redis.Client
	local  *LocalBus
	origin string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRedisBus connects to Redis and starts the receive loop. The
// origin string must be unique per instance.
func NewRedisBus(cfg config.RedisConfig, origin string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithCancel(context.Background())

	if _, err := client.Ping(ctx).Result(); err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	bus := &RedisBus{
		client: client,
		local:  NewLocalBus(),
		origin: origin,
		cancel: cancel,
	}

	sub := client.Subscribe(ctx, Channel)
	bus.wg.Add(1)
	go bus.receive(ctx, sub)

	return bus, nil
}

func (b *RedisBus) receive(ctx context.Context, sub *redis.PubSub) {
	defer b.wg.Done()
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("Dropping malformed change event")
				continue
			}
			if event.Origin == b.origin {
				continue
			}
			if err := b.local.Publish(ctx, event); err != nil {
				log.Warn().Err(err).Msg("Failed to deliver remote change event")
			}
		}
	}
}

// Publish delivers the event locally and relays it to other instances
func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	if event.Origin == "" {
		event.Origin = b.origin
	}

	if err := b.local.Publish(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal change event")
	}

	if err := b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return errors.Wrap(err, "failed to publish change event to Redis")
	}
	return nil
}

// Subscribe registers a handler for local and remote events
func (b *RedisBus) Subscribe(handler Handler) {
	b.local.Subscribe(handler)
}

// Close stops the receive loop and closes the Redis connection
func (b *RedisBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}
