// Package sse frames and decodes the answer stream: a chunked body of
// newline-delimited "data: <json>" lines.
package sse

import (
	"bytes"
	"strings"
)

// Framer reassembles lines from arbitrarily split chunks of bytes. Bytes are
// turned into text only once a line is complete, so a multi-byte character
// split across chunks survives intact. The zero value is ready to use.
type Framer struct {
	buf []byte
}

// Write appends chunk to the partial-line buffer and returns the lines it
// completed, in order. A trailing carriage return is stripped from each line.
func (f *Framer) Write(chunk []byte) []string {
	f.buf = append(f.buf, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, toLine(f.buf[:i]))
		f.buf = f.buf[i+1:]
	}
	// Release the backing array once everything is consumed.
	if len(f.buf) == 0 {
		f.buf = nil
	}
	return lines
}

// Flush returns the unterminated remainder, if any, and resets the buffer.
func (f *Framer) Flush() (string, bool) {
	if len(f.buf) == 0 {
		return "", false
	}
	line := toLine(f.buf)
	f.buf = nil
	return line, true
}

// Buffered reports the number of bytes held back waiting for a newline.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

func toLine(b []byte) string {
	b = bytes.TrimSuffix(b, []byte{'\r'})
	return strings.ToValidUTF8(string(b), "�")
}
