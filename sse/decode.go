package sse

import (
	"errors"
	"strings"

	"github.com/fwojciec/docchat"
	"github.com/tidwall/gjson"
)

// DataPrefix marks a line that carries an event payload.
const DataPrefix = "data: "

// FrameKind classifies a decoded line.
type FrameKind int

const (
	FrameIgnored      FrameKind = iota // No data prefix: comments, keep-alives, blank lines.
	FrameMalformed                     // Data prefix with a payload that is not a JSON object.
	FrameEvent                         // Payload mapped to an event.
	FrameUnrecognized                  // JSON object with no known field.
)

func (k FrameKind) String() string {
	switch k {
	case FrameIgnored:
		return "ignored"
	case FrameMalformed:
		return "malformed"
	case FrameEvent:
		return "event"
	case FrameUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// Frame is the result of decoding one line. Event is set for FrameEvent and
// Err for FrameMalformed.
type Frame struct {
	Kind  FrameKind
	Event docchat.Event
	Err   *docchat.ProtocolError
}

var (
	errNotJSON   = errors.New("payload is not valid JSON")
	errNotObject = errors.New("payload is not a JSON object")
)

// Decode maps one line to a Frame. Fields are checked in order error, done,
// chunk; the first one present decides the event.
func Decode(line string) Frame {
	payload, ok := strings.CutPrefix(line, DataPrefix)
	if !ok {
		return Frame{Kind: FrameIgnored}
	}

	if !gjson.Valid(payload) {
		return malformed(line, errNotJSON)
	}
	obj := gjson.Parse(payload)
	if !obj.IsObject() {
		return malformed(line, errNotObject)
	}

	if v := obj.Get("error"); v.Exists() {
		return Frame{Kind: FrameEvent, Event: docchat.EventFailure{Message: v.String()}}
	}
	if v := obj.Get("done"); v.Exists() && v.Bool() {
		return Frame{Kind: FrameEvent, Event: docchat.EventCompletion{}}
	}
	if v := obj.Get("chunk"); v.Type == gjson.String {
		return Frame{Kind: FrameEvent, Event: docchat.EventChunk{Text: v.String()}}
	}
	return Frame{Kind: FrameUnrecognized}
}

func malformed(line string, err error) Frame {
	return Frame{Kind: FrameMalformed, Err: &docchat.ProtocolError{Line: line, Err: err}}
}
