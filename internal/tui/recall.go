package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/pders01/reel/internal/search"
)

const recallLimit = 30

type recallResultsMsg struct {
	query   string
	results []*search.Result
}

type recallItem struct {
	result *search.Result
}

func (i recallItem) Title() string {
	m := i.result.Movie
	if year := m.Year(); year != "" {
		return fmt.Sprintf("%s (%s)", m.DisplayTitle(), year)
	}
	return m.DisplayTitle()
}

func (i recallItem) Description() string {
	m := i.result.Movie
	desc := truncateEnd(m.Overview, 80)
	if m.VoteCount > 0 {
		desc = fmt.Sprintf("★ %.1f • %s", m.VoteAverage, desc)
	}
	return desc
}

func (i recallItem) FilterValue() string { return i.result.Movie.Title }

func newRecallList() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "› recall"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

func recallItems(results []*search.Result) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = recallItem{result: r}
	}
	return items
}
