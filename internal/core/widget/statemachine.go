package widget

// The chat widget's client controller, modeled as a pure state machine:
// Transition computes the next state and the effects to run, and an
// effect layer (the embedded script) performs the I/O. Keeping
// transitions pure makes the open/typing/human-mode choreography
// testable without network timing.

// State is the widget's UI mode
type State int

const (
	StateClosed State = iota
	StateWaitingForBot
	StateBotTyping
	StateHumanMode
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateWaitingForBot:
		return "waiting_for_bot"
	case StateBotTyping:
		return "bot_typing"
	case StateHumanMode:
		return "human_mode"
	default:
		return "unknown"
	}
}

// EventType is something that happened to the widget
type EventType int

const (
	EventOpened EventType = iota
	EventClosed
	EventMessageSubmitted
	EventResponseReceived
	EventRelayMessage
	EventLiveEnded
	EventSessionExpiring
)

// Event carries the event type plus the response's live flag where relevant
type Event struct {
	Type EventType

	// Live mirrors the server's live flag on EventResponseReceived
	Live bool
}

// Action is an effect the widget must perform after a transition
type Action int

const (
	ActionFetchConfig Action = iota
	ActionAppendLocal
	ActionSubmitToServer
	ActionShowTyping
	ActionHideTyping
	ActionAppendRemote
	ActionSubscribeRelay
	ActionPromptReidentify
	ActionReset
)

// Transition is the pure transition function. Unknown state/event pairs
// leave the state unchanged with no actions.
func Transition(state State, event Event) (State, []Action) {
	switch event.Type {
	case EventOpened:
		if state == StateClosed {
			return StateWaitingForBot, []Action{ActionFetchConfig, ActionSubscribeRelay}
		}

	case EventClosed:
		if state != StateClosed {
			return StateClosed, []Action{ActionReset}
		}

	case EventMessageSubmitted:
		switch state {
		case StateWaitingForBot:
			// Optimistic append before the response resolves
			return StateBotTyping, []Action{ActionAppendLocal, ActionSubmitToServer, ActionShowTyping}
		case StateHumanMode:
			return StateHumanMode, []Action{ActionAppendLocal, ActionSubmitToServer}
		}

	case EventResponseReceived:
		if state == StateBotTyping {
			if event.Live {
				// An operator took over mid-turn; transcript updates now
				// arrive only through the relay subscription.
				return StateHumanMode, []Action{ActionHideTyping}
			}
			return StateWaitingForBot, []Action{ActionHideTyping, ActionAppendRemote}
		}

	case EventRelayMessage:
		if state == StateHumanMode || state == StateWaitingForBot {
			return state, []Action{ActionAppendRemote}
		}

	case EventLiveEnded:
		if state == StateHumanMode {
			return StateWaitingForBot, nil
		}

	case EventSessionExpiring:
		if state != StateClosed {
			return state, []Action{ActionPromptReidentify}
		}
	}

	return state, nil
}
