// Package mock provides test doubles for docchat interfaces using function fields.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/docchat"
)

// Interface compliance checks.
var (
	_ docchat.Streamer = (*Streamer)(nil)
	_ docchat.Stream   = (*Stream)(nil)
)

// Streamer is a test double for docchat.Streamer.
// Set StreamFn before calling Stream.
type Streamer struct {
	StreamFn func(ctx context.Context, q docchat.Query) (docchat.Stream, error)
}

// Stream delegates to StreamFn.
func (s *Streamer) Stream(ctx context.Context, q docchat.Query) (docchat.Stream, error) {
	return s.StreamFn(ctx, q)
}

// Stream is a test double for docchat.Stream.
// NextFn panics when nil to catch missing setup. CloseFn and StateFn are
// nil-safe (no-op and zero value) because callers commonly defer Close.
type Stream struct {
	NextFn  func() (docchat.Event, error)
	StateFn func() docchat.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (docchat.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() docchat.StreamState {
	if s.StateFn == nil {
		return docchat.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Script returns a Stream that yields events in order and then err, or
// io.EOF when err is nil.
func Script(err error, events ...docchat.Event) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (docchat.Event, error) {
			if i < len(events) {
				evt := events[i]
				i++
				return evt, nil
			}
			if err == nil {
				return nil, io.EOF
			}
			return nil, err
		},
	}
}
