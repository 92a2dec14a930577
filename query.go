package docchat

import (
	"fmt"
	"strings"
)

// Query is one question about one uploaded document.
type Query struct {
	Resource string // file id of the uploaded document
	Text     string
}

// Validate checks that both the resource and the question are present.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Resource) == "" {
		return fmt.Errorf("resource is required: %w", ErrValidation)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("query text is required: %w", ErrValidation)
	}
	return nil
}
