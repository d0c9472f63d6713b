package tui

import (
	"fmt"
)

// Canonical short status messages used across the app.
const (
	MsgBlankQuery   = "Please enter your search query."
	MsgSearching    = "Searching…"
	MsgErrorBanner  = "Could not load movies. Submit the search again or pick another page."
	MsgRecallEmpty  = "Nothing recalled yet. Movies appear here once a search has loaded them."
	MsgRenderFailed = "Could not render details"
)

// MsgNoOpener explains why the open keys did nothing.
func MsgNoOpener(opener string) string {
	return fmt.Sprintf("%q not found on PATH. Set open.opener in the config.", opener)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgSearchSummary describes the active search for the header.
func MsgSearchSummary(query string, total, page, pages int) string {
	base := fmt.Sprintf("%q • %s", query, MsgResultsCount(total))
	if pages > 1 {
		base += fmt.Sprintf(" • page %d/%d", page, pages)
	}
	return base
}

func MsgOpened(target string) string {
	return "Opened " + truncateMiddle(target, 48)
}

func MsgRecallCount(n, indexed int) string {
	return fmt.Sprintf("%s • idx: %d docs", MsgResultsCount(n), indexed)
}
