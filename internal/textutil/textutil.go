// Package textutil provides prompt text helpers shared by the dedup passes
// and the CLI: canonical grouping keys and display truncation.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PromptKey canonicalizes a prompt for duplicate grouping. Leading and
// trailing whitespace is insignificant, and visually identical strings with
// different Unicode compositions must land in the same group.
func PromptKey(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// Truncate shortens a string to at most max runes, appending an ellipsis
// when anything was cut.
func Truncate(value string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
