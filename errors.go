package docchat

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a query or request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrNotFound indicates the backend does not know the requested chat.
	ErrNotFound = errors.New("not found")
)

// TransportError reports that a request could not be sent or its response
// could not be read. Timeouts enforced by the HTTP client surface here.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed event frame. Streams recover from it
// locally by discarding the frame; it never ends a session.
type ProtocolError struct {
	Line string
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: malformed frame %q: %v", e.Line, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// UpstreamError reports a failure the server stated explicitly, either as a
// non-success HTTP status or as an error frame mid-stream (StatusCode 0).
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream: %s", e.Message)
}

// Is matches ErrNotFound for 404 responses.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// PrematureEndError reports a stream that closed without a terminal event.
type PrematureEndError struct{}

func (e *PrematureEndError) Error() string {
	return "stream ended before the answer was complete"
}
