package fs

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob expands patterns into regular file paths. Patterns support ** for
// recursive matching. Paths are returned in pattern order, each once. Every
// pattern must match at least one file.
func Glob(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var matches []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("fs: invalid glob pattern: %s", pattern)
		}
		found, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("fs: match %s: %w", pattern, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("fs: no files match %s", pattern)
		}
		for _, path := range found {
			if seen[path] {
				continue
			}
			seen[path] = true
			matches = append(matches, path)
		}
	}
	return matches, nil
}
