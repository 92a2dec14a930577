package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/sse"
)

// stream implements [docchat.Stream] over a chunked answer body. It owns the
// body and the partial-line buffer inside its sse.Reader.
type stream struct {
	body   io.ReadCloser
	lines  *sse.Reader
	ctx    context.Context
	logger *slog.Logger
	state  docchat.StreamState
	closed bool
	err    error // terminal read error, if any
}

// Interface compliance check.
var _ docchat.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *stream {
	return &stream{
		body:   body,
		lines:  sse.NewReader(body),
		ctx:    ctx,
		logger: logger,
		state:  docchat.StreamStateNew,
	}
}

// Next reads lines until one decodes to an event. Malformed and
// unrecognized frames are logged and skipped.
func (s *stream) Next() (docchat.Event, error) {
	if s.closed {
		return nil, docchat.ErrStreamClosed
	}
	switch s.state {
	case docchat.StreamStateCompleted:
		return nil, io.EOF
	case docchat.StreamStateFailed:
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}

	for {
		line, err := s.lines.Next()
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}

		frame := sse.Decode(line)
		switch frame.Kind {
		case sse.FrameIgnored:
			continue
		case sse.FrameMalformed:
			s.logger.Warn("discarding malformed frame", "error", frame.Err)
			continue
		case sse.FrameUnrecognized:
			s.logger.Debug("discarding unrecognized frame", "line", line)
			continue
		case sse.FrameEvent:
		}

		switch frame.Event.(type) {
		case docchat.EventCompletion:
			s.state = docchat.StreamStateCompleted
		case docchat.EventFailure:
			s.state = docchat.StreamStateFailed
		default:
			s.state = docchat.StreamStateActive
		}
		return frame.Event, nil
	}
}

// State returns the current stream state.
func (s *stream) State() docchat.StreamState {
	return s.state
}

// Close closes the response body. Closing before a terminal state abandons
// the exchange.
func (s *stream) Close() error {
	if s.state != docchat.StreamStateCompleted && s.state != docchat.StreamStateFailed {
		s.state = docchat.StreamStateClosed
	}
	s.closed = true
	return s.body.Close()
}

func (s *stream) terminate(err error) {
	s.state = docchat.StreamStateFailed
	switch {
	case errors.Is(err, io.EOF):
		s.err = &docchat.PrematureEndError{}
	case s.ctx.Err() != nil:
		s.err = fmt.Errorf("api: %w", &docchat.TransportError{Op: "read body", Err: s.ctx.Err()})
	default:
		s.err = fmt.Errorf("api: %w", &docchat.TransportError{Op: "read body", Err: err})
	}
}
