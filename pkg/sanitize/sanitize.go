// Package sanitize normalizes externally supplied text before it enters
// history, prompts, or logs.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// controlChars matches the ASCII control characters stripped from all
// external input. Tab, LF and CR are deliberately preserved.
var controlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

// Clean strips control characters and surrounding whitespace from value and
// truncates the result to at most limit bytes when limit > 0, backing off to
// a rune boundary so no multi-byte character is split. It never fails; the
// worst case is an empty string.
func Clean(value string, limit int) string {
	value = controlChars.ReplaceAllString(strings.TrimSpace(value), "")
	if limit > 0 && len(value) > limit {
		value = value[:Boundary(value, limit)]
	}
	return value
}

// Boundary returns the largest cut point not beyond limit that lands on a
// rune boundary of s.
func Boundary(s string, limit int) int {
	if limit >= len(s) {
		return len(s)
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return limit
}
