package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidJSON is returned when a descriptions payload cannot be parsed.
// There is no partial parse: the whole payload is rejected.
var ErrInvalidJSON = errors.New("descriptions JSON could not be parsed")

// ParseKeywords splits comma-separated free text into trimmed, non-empty
// keywords, preserving input order.
func ParseKeywords(text string) []string {
	var keywords []string
	for _, part := range strings.Split(text, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// ParseDescriptions parses an optional JSON object literal mapping filenames
// to description strings. Blank input yields an empty map.
func ParseDescriptions(text string) (map[string]string, error) {
	descriptions := map[string]string{}
	if strings.TrimSpace(text) == "" {
		return descriptions, nil
	}
	if err := json.Unmarshal([]byte(text), &descriptions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return descriptions, nil
}
