package docchat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Handler receives the outcome of one streaming query. Exactly one of
// OnComplete and OnError is called, exactly once, unless the context is
// cancelled, in which case neither is. Nil callbacks are skipped.
type Handler struct {
	OnChunk    func(text string)
	OnComplete func()
	OnError    func(err error)
}

// Asker owns streaming exchanges end to end: it issues the request, drains
// the Stream, and reports the outcome through a Handler.
type Asker struct {
	streamer Streamer
	logger   *slog.Logger
}

// AskerOption configures an Asker.
type AskerOption func(*Asker)

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) AskerOption {
	return func(a *Asker) { a.logger = l }
}

// NewAsker creates an Asker that issues queries through streamer.
func NewAsker(streamer Streamer, opts ...AskerOption) *Asker {
	a := &Asker{streamer: streamer, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run streams the answer to q, invoking h as events arrive. It blocks until
// the exchange ends or ctx is cancelled. Run does not retry and does not
// retain chunks; callers accumulate the answer themselves.
func (a *Asker) Run(ctx context.Context, q Query, h Handler) {
	e := exchange{h: h}

	if err := q.Validate(); err != nil {
		e.fail(err)
		return
	}

	stream, err := a.streamer.Stream(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.fail(err)
		return
	}
	defer stream.Close()

	for {
		evt, err := stream.Next()
		if ctx.Err() != nil {
			// Abandoned: drop the session silently.
			a.logger.Debug("stream cancelled", "resource", q.Resource)
			return
		}
		if err != nil {
			var premature *PrematureEndError
			switch {
			case errors.Is(err, io.EOF), errors.As(err, &premature):
				e.fail(&PrematureEndError{})
			default:
				e.fail(err)
			}
			return
		}

		switch evt := evt.(type) {
		case EventChunk:
			e.chunk(evt.Text)
		case EventCompletion:
			e.complete()
			return
		case EventFailure:
			e.fail(&UpstreamError{Message: evt.Message})
			return
		default:
			a.logger.Warn("unexpected event type", "type", fmt.Sprintf("%T", evt))
		}
	}
}

// exchange guards a Handler so that the terminal callback fires once.
type exchange struct {
	h    Handler
	done bool
}

func (e *exchange) chunk(text string) {
	if e.done || e.h.OnChunk == nil {
		return
	}
	e.h.OnChunk(text)
}

func (e *exchange) complete() {
	if e.done {
		return
	}
	e.done = true
	if e.h.OnComplete != nil {
		e.h.OnComplete()
	}
}

func (e *exchange) fail(err error) {
	if e.done {
		return
	}
	e.done = true
	if e.h.OnError != nil {
		e.h.OnError(err)
	}
}
