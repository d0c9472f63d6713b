package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/query"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/tmdb"
)

type moviesFetchedMsg struct {
	key  query.Key
	page *tmdb.SearchPage
	err  error
}

type errorMsg struct {
	err error
}

type openedMsg struct {
	target string
}

// fetchMovies loads one page in a command goroutine. There is no abort; a
// late result for a key that is no longer current is cached but not shown.
func (a *App) fetchMovies(key query.Key) tea.Cmd {
	timeout := a.config.TMDB.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := a.store.Fetch(ctx, key)
		if err != nil {
			return moviesFetchedMsg{key: key, err: wrapErr(fmt.Sprintf("search %s", key), err)}
		}
		if l, ok := a.index.(search.UpdateListener); ok && page != nil {
			l.OnMoviesFetched(page.Results)
		}
		return moviesFetchedMsg{key: key, page: page}
	}
}

func (a *App) renderDetail(m tmdb.Movie) tea.Cmd {
	width := a.width
	imageBase := a.config.TMDB.ImageBaseURL
	posterSize := a.config.UI.PosterSize
	return func() tea.Msg {
		out, err := a.renderer.Render(movieMarkdown(m, imageBase, posterSize), width)
		if err != nil {
			debuglog.Warnf("render detail for %d: %v", m.ID, err)
			return detailRenderedMsg{movieID: m.ID, content: fmt.Sprintf("%s: %v\n\nPress Escape to go back.", MsgRenderFailed, err)}
		}
		return detailRenderedMsg{movieID: m.ID, content: out}
	}
}

func (a *App) performRecall(q string) tea.Cmd {
	return func() tea.Msg {
		if a.index == nil {
			return recallResultsMsg{query: q}
		}
		results, err := a.index.Search(q, recallLimit)
		if err != nil {
			return errorMsg{err: wrapErr("recall", err)}
		}
		return recallResultsMsg{query: q, results: results}
	}
}

func (a *App) openURL(target string) tea.Cmd {
	if target != "" && !a.launcher.Available() {
		return a.toasts.push(StatusWarn, MsgNoOpener(a.launcher.Opener()))
	}
	return func() tea.Msg {
		if target == "" {
			return errorMsg{err: fmt.Errorf("nothing to open")}
		}
		if err := a.launcher.Open(target); err != nil {
			return errorMsg{err: wrapErr("failed to open "+target, err)}
		}
		return openedMsg{target: target}
	}
}
