// Package fs finds and opens the local PDF files a user uploads.
package fs

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotPDF is returned for files whose content is not a PDF document.
var ErrNotPDF = errors.New("not a PDF document")

// sniffLen is how much of a file content type detection looks at.
const sniffLen = 512

// OpenPDF opens path for upload after checking that its content is a PDF.
// The returned file is positioned at the start.
func OpenPDF(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fs: open: %w", err)
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("fs: read %s: %w", path, err)
	}
	if http.DetectContentType(head[:n]) != "application/pdf" {
		f.Close()
		return nil, fmt.Errorf("fs: %s: %w", path, ErrNotPDF)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("fs: rewind %s: %w", path, err)
	}
	return f, nil
}

// Title derives a chat title from a file path: the base name without its
// .pdf extension.
func Title(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".pdf") {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
