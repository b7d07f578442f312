package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receiveEvent(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.Events():
		require.True(t, ok, "subscription closed unexpectedly")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for relay event")
		return Event{}
	}
}

func TestHubRelayFanOut(t *testing.T) {
	hub := NewHubRelay()
	ctx := context.Background()

	first, err := hub.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	second, err := hub.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	other, err := hub.Subscribe(ctx, "room-2")
	require.NoError(t, err)

	require.NoError(t, hub.Publish(ctx, "room-1", EventMessage, map[string]string{"text": "hello"}))

	for _, sub := range []Subscription{first, second} {
		evt := receiveEvent(t, sub)
		require.Equal(t, EventMessage, evt.Event)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(evt.Payload, &payload))
		require.Equal(t, "hello", payload["text"])
	}

	// Different room sees nothing
	select {
	case evt := <-other.Events():
		t.Fatalf("unexpected event on room-2: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRelayCloseStopsDelivery(t *testing.T) {
	hub := NewHubRelay()
	ctx := context.Background()

	sub, err := hub.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close()) // double close is safe

	_, ok := <-sub.Events()
	require.False(t, ok, "events channel should be closed")

	// Publishing into a room with no subscribers is fine
	require.NoError(t, hub.Publish(ctx, "room-1", EventMessage, "after close"))
}

func TestHubRelayDropsWhenSubscriberIsSlow(t *testing.T) {
	hub := NewHubRelay()
	ctx := context.Background()

	sub, err := hub.Subscribe(ctx, "room-1")
	require.NoError(t, err)
	defer sub.Close()

	// Overflow the buffer without draining; Publish must never block or fail
	for i := 0; i < 100; i++ {
		require.NoError(t, hub.Publish(ctx, "room-1", EventMessage, i))
	}

	drained := 0
	for {
		select {
		case <-sub.Events():
			drained++
		default:
			require.LessOrEqual(t, drained, 16)
			return
		}
	}
}
