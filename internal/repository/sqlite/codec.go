package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayout is how created_at is rendered in its TEXT column.
const timeLayout = time.RFC3339Nano

// joinList encodes a list field as comma-joined text for storage.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

// splitList decodes a comma-joined column. An empty stored value decodes to
// an empty (non-nil) slice — strings.Split alone would yield [""].
func splitList(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, ",")
}

// encodePriceRange renders a price range as a textual integer-array
// literal, e.g. "[1,3]". An empty range stores as the empty string.
func encodePriceRange(r []int) string {
	if len(r) == 0 {
		return ""
	}
	// json.Marshal of []int cannot fail.
	b, _ := json.Marshal(r)
	return string(b)
}

// parsePriceRange decodes the stored price-range literal.
//
// This replaces the original's evaluate-the-text decode with a strict
// parser: the accepted grammar is exactly a literal array of non-negative
// integers (the JSON grammar also covers the legacy "[1, 3]" spelling with
// spaces). Anything else fails closed with an error and an empty range —
// the text is never evaluated.
func parsePriceRange(stored string) ([]int, error) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return []int{}, nil
	}
	if !strings.HasPrefix(stored, "[") {
		return []int{}, fmt.Errorf("price range %q is not an array literal", stored)
	}

	var r []int
	if err := json.Unmarshal([]byte(stored), &r); err != nil {
		return []int{}, fmt.Errorf("parsing price range %q: %w", stored, err)
	}
	for _, v := range r {
		if v < 0 {
			return []int{}, fmt.Errorf("price range %q contains a negative tier", stored)
		}
	}
	if r == nil {
		r = []int{}
	}
	return r, nil
}

// parseTime reads a created_at column value.
func parseTime(stored string) (time.Time, error) {
	t, err := time.Parse(timeLayout, stored)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", stored, err)
	}
	return t, nil
}
