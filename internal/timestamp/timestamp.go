// Package timestamp validates and renders the fixed-width UTC timestamps
// used for publish dates and the sync watermark.
package timestamp

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the only accepted form: six fractional digits and a literal Z.
// Values in this layout sort lexicographically in time order.
const Layout = "2006-01-02T15:04:05.000000Z"

// Default is the watermark used when none has been recorded yet.
const Default = "2025-01-01T00:00:00.000000Z"

var pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}Z$`)

// Validate reports why s is not a usable timestamp, or nil.
func Validate(s string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("invalid timestamp format: %q", s)
	}

	if _, err := time.Parse(Layout, s); err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}

	return nil
}

func Valid(s string) bool {
	return Validate(s) == nil
}

// Format renders t in UTC using Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}
