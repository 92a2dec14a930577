package docchat

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateActive                       // Mid-stream, receiving chunks.
	StreamStateCompleted                    // A completion event was observed.
	StreamStateFailed                       // A failure event or read error was observed.
	StreamStateClosed                       // Close() called before a terminal state.
)

// String returns the lower-case state name.
func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateActive:
		return "active"
	case StreamStateCompleted:
		return "completed"
	case StreamStateFailed:
		return "failed"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern over one streaming exchange.
// Cancellation flows through the context passed to Streamer.Stream().
//
// Next returns events in transport order. Behavior by stream state:
//   - After EventCompletion or EventFailure has been returned, Next returns
//     io.EOF and reads nothing more from the transport.
//   - If the transport ends without a terminal event, Next returns a
//     *PrematureEndError.
//   - Read failures are returned as *TransportError.
//   - After Close, Next returns ErrStreamClosed.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Close() error
}

// Streamer issues streaming queries. A non-success response is reported as
// an error from Stream, never as a Stream.
type Streamer interface {
	Stream(ctx context.Context, q Query) (Stream, error)
}
