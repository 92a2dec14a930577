package docchat

// Event is a sealed interface representing one decoded streaming event.
// Transport failures come from Stream.Next's error return, not from events;
// EventFailure is the server telling us the exchange failed.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventChunk is a fragment of the answer. Chunks are order-significant and
// are appended in arrival order.
type EventChunk struct {
	Text string
}

func (EventChunk) event() {}

// EventCompletion signals that no more chunks will arrive.
type EventCompletion struct{}

func (EventCompletion) event() {}

// EventFailure signals that the server gave up on the exchange.
type EventFailure struct {
	Message string
}

func (EventFailure) event() {}

// IsTerminal reports whether e ends a streaming session.
func IsTerminal(e Event) bool {
	switch e.(type) {
	case EventCompletion, EventFailure:
		return true
	default:
		return false
	}
}

// Interface compliance checks.
var (
	_ Event = EventChunk{}
	_ Event = EventCompletion{}
	_ Event = EventFailure{}
)
