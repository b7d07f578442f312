package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRelay bridges rooms onto Redis pub/sub channels so events reach
// widgets connected to any instance.
type RedisRelay struct {
	client *redis.Client
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client}
}

func channelFor(roomID string) string {
	return "chatroom:" + roomID
}

func (r *RedisRelay) Publish(ctx context.Context, roomID, event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal relay payload: %w", err)
	}
	envelope, err := json.Marshal(Event{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal relay envelope: %w", err)
	}
	if err := r.client.Publish(ctx, channelFor(roomID), envelope).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channelFor(roomID), err)
	}
	return nil
}

func (r *RedisRelay) Subscribe(ctx context.Context, roomID string) (Subscription, error) {
	pubsub := r.client.Subscribe(ctx, channelFor(roomID))

	// Confirm the subscription before handing it out
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channelFor(roomID), err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan Event, 16),
	}
	go sub.pump()
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan Event
}

func (s *redisSubscription) pump() {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			continue
		}
		s.events <- event
	}
}

func (s *redisSubscription) Events() <-chan Event {
	return s.events
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
