package chapters

import (
	"errors"
	"regexp"
	"strconv"
)

var reDigits = regexp.MustCompile(`\d+`)

// Number returns the first run of decimal digits in label, or 0 when the
// label carries none. Oversized runs saturate instead of wrapping.
func Number(label string) int64 {
	m := reDigits.FindString(label)
	if m == "" {
		return 0
	}

	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}

	return n
}

// Accept reports whether a chapter label seen on the web may replace the
// stored one. Equal numbers are accepted so link refreshes go through.
func Accept(web, existing string) bool {
	return Number(web) >= Number(existing)
}
