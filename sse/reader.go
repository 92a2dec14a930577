package sse

import (
	"errors"
	"io"
)

const readSize = 4096

// Reader turns an io.Reader into a lazy sequence of lines. It is finite and
// cannot be restarted.
type Reader struct {
	r       io.Reader
	framer  Framer
	pending []string
	buf     []byte
	err     error
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, readSize)}
}

// Next returns the next complete line. At the end of input the unterminated
// remainder, if any, is returned as a final line, followed by io.EOF. A read
// error is returned once every line framed before it has been delivered.
func (r *Reader) Next() (string, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return "", r.err
		}
		n, err := r.r.Read(r.buf)
		if n > 0 {
			r.pending = append(r.pending, r.framer.Write(r.buf[:n])...)
		}
		switch {
		case errors.Is(err, io.EOF):
			if line, ok := r.framer.Flush(); ok {
				r.pending = append(r.pending, line)
			}
			r.err = io.EOF
		case err != nil:
			r.err = err
		}
	}
	line := r.pending[0]
	r.pending = r.pending[1:]
	return line, nil
}
