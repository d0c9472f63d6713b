package tui

import (
	"strings"
	"unicode"
)

// truncateEnd shortens s to at most limit characters, appending an ellipsis
// if truncation occurs.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle keeps both ends of s, which is where URLs carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left <= 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}

func repeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(r), n)
}

const maxQueryLength = 256

// sanitizeQuery trims, flattens whitespace and caps the length of user input.
func sanitizeQuery(input string) string {
	fields := strings.FieldsFunc(input, unicode.IsSpace)
	out := strings.Join(fields, " ")
	if r := []rune(out); len(r) > maxQueryLength {
		out = strings.TrimSpace(string(r[:maxQueryLength]))
	}
	return out
}
