package metadata

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RequiredAnnotations must be present in a key=value annotation file.
var RequiredAnnotations = []string{KeyTitle, KeyVersion, KeyLicenseName}

// ParseAnnotations reads `key=value` lines. The key is the text before the first '=' and
// the value is everything after it, taken literally. Blank lines are ignored.
func ParseAnnotations(r io.Reader) (Map, error) {
	m := make(Map)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("failed to parse annotations: line %d: expected key=value, got %q", lineNo, line)
		}
		m[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}

	if err := m.Require(RequiredAnnotations...); err != nil {
		return nil, err
	}
	return m, nil
}
