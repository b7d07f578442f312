package realtime

import (
	"context"
	"encoding/json"
)

// Event is one message pushed to subscribers of a chat room
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Well-known event names
const (
	EventMessage  = "chat_message"
	EventLiveMode = "live_mode"
)

// Subscription is a live feed of one room's events. Close releases it;
// Events is closed afterwards.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Relay fans newly created messages out to every open client of a room.
// Delivery is best-effort, at-most-once, with no ordering guarantee;
// a failed Publish must never fail the persistence operation that
// triggered it.
type Relay interface {
	Publish(ctx context.Context, roomID, event string, payload interface{}) error
	Subscribe(ctx context.Context, roomID string) (Subscription, error)
}
