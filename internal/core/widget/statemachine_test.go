package widget

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		event       Event
		wantState   State
		wantActions []Action
	}{
		{
			name:        "opening the widget fetches config",
			state:       StateClosed,
			event:       Event{Type: EventOpened},
			wantState:   StateWaitingForBot,
			wantActions: []Action{ActionFetchConfig, ActionSubscribeRelay},
		},
		{
			name:        "submitting in bot mode appends optimistically and shows typing",
			state:       StateWaitingForBot,
			event:       Event{Type: EventMessageSubmitted},
			wantState:   StateBotTyping,
			wantActions: []Action{ActionAppendLocal, ActionSubmitToServer, ActionShowTyping},
		},
		{
			name:        "bot reply returns to waiting",
			state:       StateBotTyping,
			event:       Event{Type: EventResponseReceived, Live: false},
			wantState:   StateWaitingForBot,
			wantActions: []Action{ActionHideTyping, ActionAppendRemote},
		},
		{
			name:        "live response routes to human mode without local append",
			state:       StateBotTyping,
			event:       Event{Type: EventResponseReceived, Live: true},
			wantState:   StateHumanMode,
			wantActions: []Action{ActionHideTyping},
		},
		{
			name:        "human mode submit never shows typing",
			state:       StateHumanMode,
			event:       Event{Type: EventMessageSubmitted},
			wantState:   StateHumanMode,
			wantActions: []Action{ActionAppendLocal, ActionSubmitToServer},
		},
		{
			name:        "relay message appends in human mode",
			state:       StateHumanMode,
			event:       Event{Type: EventRelayMessage},
			wantState:   StateHumanMode,
			wantActions: []Action{ActionAppendRemote},
		},
		{
			name:        "relay message appends in waiting mode",
			state:       StateWaitingForBot,
			event:       Event{Type: EventRelayMessage},
			wantState:   StateWaitingForBot,
			wantActions: []Action{ActionAppendRemote},
		},
		{
			name:      "operator handback reverts to bot mode",
			state:     StateHumanMode,
			event:     Event{Type: EventLiveEnded},
			wantState: StateWaitingForBot,
		},
		{
			name:        "session nearing expiry prompts re-identification",
			state:       StateWaitingForBot,
			event:       Event{Type: EventSessionExpiring},
			wantState:   StateWaitingForBot,
			wantActions: []Action{ActionPromptReidentify},
		},
		{
			name:        "closing resets",
			state:       StateHumanMode,
			event:       Event{Type: EventClosed},
			wantState:   StateClosed,
			wantActions: []Action{ActionReset},
		},
		{
			name:      "response while not typing is ignored",
			state:     StateWaitingForBot,
			event:     Event{Type: EventResponseReceived},
			wantState: StateWaitingForBot,
		},
		{
			name:      "submit while closed is ignored",
			state:     StateClosed,
			event:     Event{Type: EventMessageSubmitted},
			wantState: StateClosed,
		},
		{
			name:      "opening twice is ignored",
			state:     StateWaitingForBot,
			event:     Event{Type: EventOpened},
			wantState: StateWaitingForBot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotState, gotActions := Transition(tt.state, tt.event)
			require.Equal(t, tt.wantState, gotState)
			require.Equal(t, tt.wantActions, gotActions)
		})
	}
}

func TestFullConversationFlow(t *testing.T) {
	// visitor opens → sends "hello" → bot replies → operator takes over →
	// visitor sends again → relay delivers operator reply → handback
	state := StateClosed

	state, _ = Transition(state, Event{Type: EventOpened})
	require.Equal(t, StateWaitingForBot, state)

	state, _ = Transition(state, Event{Type: EventMessageSubmitted})
	require.Equal(t, StateBotTyping, state)

	state, _ = Transition(state, Event{Type: EventResponseReceived, Live: false})
	require.Equal(t, StateWaitingForBot, state)

	state, _ = Transition(state, Event{Type: EventMessageSubmitted})
	state, _ = Transition(state, Event{Type: EventResponseReceived, Live: true})
	require.Equal(t, StateHumanMode, state)

	state, actions := Transition(state, Event{Type: EventMessageSubmitted})
	require.Equal(t, StateHumanMode, state)
	require.NotContains(t, actions, ActionShowTyping)

	state, _ = Transition(state, Event{Type: EventRelayMessage})
	require.Equal(t, StateHumanMode, state)

	state, _ = Transition(state, Event{Type: EventLiveEnded})
	require.Equal(t, StateWaitingForBot, state)
}
