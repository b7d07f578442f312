package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// HubRelay is an in-process relay for single-node deployments and tests.
// Subscribers get buffered channels; events are dropped when a
// subscriber's buffer is full rather than blocking the publisher.
type HubRelay struct {
	mu    sync.RWMutex
	rooms map[string]map[*hubSubscription]struct{}
}

func NewHubRelay() *HubRelay {
	return &HubRelay{
		rooms: make(map[string]map[*hubSubscription]struct{}),
	}
}

func (h *HubRelay) Publish(_ context.Context, roomID, event string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal relay payload: %w", err)
	}
	evt := Event{Event: event, Payload: raw}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[roomID] {
		select {
		case sub.events <- evt:
		default:
			// Slow consumer, drop. At-most-once delivery.
		}
	}
	return nil
}

func (h *HubRelay) Subscribe(_ context.Context, roomID string) (Subscription, error) {
	sub := &hubSubscription{
		hub:    h,
		roomID: roomID,
		events: make(chan Event, 16),
	}

	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*hubSubscription]struct{})
	}
	h.rooms[roomID][sub] = struct{}{}
	h.mu.Unlock()

	return sub, nil
}

func (h *HubRelay) remove(sub *hubSubscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[sub.roomID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, sub.roomID)
	}
	close(sub.events)
}

type hubSubscription struct {
	hub    *HubRelay
	roomID string
	events chan Event
	once   sync.Once
}

func (s *hubSubscription) Events() <-chan Event {
	return s.events
}

func (s *hubSubscription) Close() error {
	s.once.Do(func() {
		s.hub.remove(s)
	})
	return nil
}
