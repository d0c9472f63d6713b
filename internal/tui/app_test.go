package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/coordinator"
	"github.com/pders01/reel/internal/query"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/tmdb"
)

type fakeSearcher struct {
	mu    sync.Mutex
	pages map[query.Key]*tmdb.SearchPage
	err   error
	calls []query.Key
}

func (f *fakeSearcher) SearchMovies(ctx context.Context, q string, page int) (*tmdb.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := query.Key{Query: q, Page: page}
	f.calls = append(f.calls, key)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.pages[key]; ok {
		return p, nil
	}
	return &tmdb.SearchPage{Page: page, Results: []tmdb.Movie{}}, nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeOpener struct {
	opened  []string
	missing bool
}

func (f *fakeOpener) Open(target string) error {
	f.opened = append(f.opened, target)
	return nil
}

func (f *fakeOpener) Available() bool { return !f.missing }

func (f *fakeOpener) Opener() string { return "xdg-open" }

func batmanPages() map[query.Key]*tmdb.SearchPage {
	pages := map[query.Key]*tmdb.SearchPage{}
	for p := 1; p <= 5; p++ {
		pages[query.Key{Query: "batman", Page: p}] = &tmdb.SearchPage{
			Page:         p,
			Results:      []tmdb.Movie{{ID: int64(p), Title: "Batman", ReleaseDate: "1989-06-21", PosterPath: "/b.jpg"}},
			TotalPages:   5,
			TotalResults: 81,
		}
	}
	return pages
}

func newTestApp(t *testing.T, api *fakeSearcher, index search.Searcher) (*App, *fakeOpener) {
	t.Helper()
	return newTestAppWithConfig(t, config.TestConfig(), api, index)
}

func newTestAppWithConfig(t *testing.T, cfg *config.Config, api *fakeSearcher, index search.Searcher) (*App, *fakeOpener) {
	t.Helper()
	app := NewApp(cfg, api, index)
	opener := &fakeOpener{}
	app.launcher = opener
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, opener
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// settle performs the fetch for the current key synchronously and feeds the
// result back into the app.
func settle(t *testing.T, app *App) {
	t.Helper()
	msg := app.fetchMovies(app.coord.Key())()
	app.Update(msg)
}

func submit(t *testing.T, app *App, q string) {
	t.Helper()
	typeText(app, q)
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	settle(t, app)
}

func TestNewAppStartsOnSearch(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)

	assert.Equal(t, ViewResults, app.view)
	assert.True(t, app.searchInput.Focused())
	assert.Equal(t, query.StatusDisabled, app.store.Result().Status)
	assert.Contains(t, app.View(), "Type a title and press enter")
}

func TestBlankSubmitShowsToastAndDoesNotFetch(t *testing.T) {
	api := &fakeSearcher{}
	app, _ := newTestApp(t, api, nil)

	typeText(app, "   ")
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{MsgBlankQuery}, app.toasts.texts())
	assert.Equal(t, "", app.coord.Query())
	assert.True(t, app.searchInput.Focused())
	assert.Zero(t, api.callCount())
}

func TestTypingQDoesNotQuitWhileSearching(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)

	press(app, runes("q"))
	assert.Equal(t, "q", app.searchInput.Value())
	assert.True(t, app.searchInput.Focused())
	assert.Equal(t, ViewResults, app.view)
}

func TestSearchRendersGridAndPager(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{pages: batmanPages()}, nil)

	submit(t, app, "batman")

	assert.False(t, app.searchInput.Focused())
	assert.Equal(t, 1, app.grid.Len())
	assert.Equal(t, 5, app.pager.TotalPages)
	assert.Equal(t, 0, app.pager.Page)
	assert.Empty(t, app.toasts.texts())

	view := app.View()
	assert.Contains(t, view, "Batman")
	assert.Contains(t, view, "page 1 of 5")
	assert.Contains(t, view, "81 results")
}

func TestZeroTimeoutFallsBackToDefault(t *testing.T) {
	cfg := config.TestConfig()
	cfg.TMDB.Timeout = 0
	require.NoError(t, cfg.Validate())

	app, _ := newTestAppWithConfig(t, cfg, &fakeSearcher{pages: batmanPages()}, nil)
	submit(t, app, "batman")

	f := app.coord.Frame()
	assert.False(t, f.ShowError)
	assert.True(t, f.ShowGrid)
	assert.Empty(t, app.toasts.texts())
}

func TestResubmitWhileLoadingShowsOneToast(t *testing.T) {
	api := &fakeSearcher{}
	app, _ := newTestApp(t, api, nil)

	typeText(app, "nothing")
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	first := app.fetchMovies(app.coord.Key())

	press(app, runes("/"))
	require.NotNil(t, press(app, tea.KeyMsg{Type: tea.KeyEnter}), "resubmit asks for a fetch")
	second := app.fetchMovies(app.coord.Key())

	app.Update(first())
	app.Update(second())
	assert.Equal(t, []string{coordinator.MsgNoResults}, app.toasts.texts())
}

func TestNoResultsToastFiresOnce(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)

	submit(t, app, "zzzzz_no_match")
	assert.Equal(t, []string{coordinator.MsgNoResults}, app.toasts.texts())

	_ = app.View()
	_ = app.View()
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Len(t, app.toasts.texts(), 1)

	view := app.View()
	assert.NotContains(t, view, "page 1 of")
	assert.Equal(t, 0, app.grid.Len())
}

func TestFetchErrorShowsToastAndBanner(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{err: errors.New("connection refused")}, nil)

	submit(t, app, "batman")

	assert.Equal(t, []string{coordinator.MsgFetchError}, app.toasts.texts())
	f := app.coord.Frame()
	assert.True(t, f.ShowError)
	assert.False(t, f.ShowLoader)
	assert.Contains(t, app.View(), MsgErrorBanner)
}

func TestToastExpires(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, app.toasts.items, 1)

	app.Update(toastExpiredMsg{id: app.toasts.items[0].id})
	assert.Zero(t, app.toasts.len())
}

func TestPagingKeys(t *testing.T) {
	api := &fakeSearcher{pages: batmanPages()}
	app, _ := newTestApp(t, api, nil)
	submit(t, app, "batman")

	cmd := press(app, runes("]"))
	require.NotNil(t, cmd)
	assert.Equal(t, 2, app.coord.Page())
	assert.True(t, app.coord.Frame().IsPlaceholder, "previous page stays while the next loads")
	settle(t, app)
	assert.Equal(t, int64(2), app.grid.movies[0].ID)

	press(app, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 3, app.coord.Page())
	settle(t, app)

	press(app, runes("["))
	press(app, runes("["))
	press(app, runes("["))
	assert.Equal(t, 1, app.coord.Page(), "pager never goes below the first page")
}

func TestPagingIgnoredWithSinglePage(t *testing.T) {
	api := &fakeSearcher{pages: map[query.Key]*tmdb.SearchPage{
		{Query: "heat", Page: 1}: {Page: 1, Results: []tmdb.Movie{{ID: 949, Title: "Heat"}}, TotalPages: 1, TotalResults: 1},
	}}
	app, _ := newTestApp(t, api, nil)
	submit(t, app, "heat")

	press(app, runes("]"))
	assert.Equal(t, 1, app.coord.Page())
	assert.Equal(t, 1, api.callCount())
}

func TestNewSearchResetsPage(t *testing.T) {
	pages := batmanPages()
	pages[query.Key{Query: "superman", Page: 1}] = &tmdb.SearchPage{
		Page: 1, Results: []tmdb.Movie{{ID: 1924, Title: "Superman"}}, TotalPages: 2,
	}
	api := &fakeSearcher{pages: pages}
	app, _ := newTestApp(t, api, nil)
	submit(t, app, "batman")
	press(app, runes("]"))
	settle(t, app)
	press(app, runes("]"))
	settle(t, app)
	require.Equal(t, 3, app.coord.Page())

	press(app, runes("/"))
	require.True(t, app.searchInput.Focused())
	app.searchInput.SetValue("")
	submit(t, app, "superman")

	assert.Equal(t, 1, app.coord.Page())
	assert.Equal(t, query.Key{Query: "superman", Page: 1}, api.calls[len(api.calls)-1])
	assert.Equal(t, 0, app.pager.Page)
}

func TestLateResponseIsNotRendered(t *testing.T) {
	api := &fakeSearcher{pages: batmanPages()}
	app, _ := newTestApp(t, api, nil)

	typeText(app, "batman")
	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	stale := app.fetchMovies(app.coord.Key())

	press(app, runes("/"))
	app.searchInput.SetValue("alien")
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	app.Update(stale())
	assert.Equal(t, 0, app.grid.Len(), "late batman page is not shown for alien")
	assert.True(t, app.coord.Frame().ShowLoader)
}

func TestGridSelectionOpensDetail(t *testing.T) {
	app, opener := newTestApp(t, &fakeSearcher{pages: batmanPages()}, nil)
	submit(t, app, "batman")

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewDetail, app.view)
	require.NotNil(t, app.coord.Selected())
	assert.True(t, app.loadingDetail)

	app.Update(cmd())
	assert.False(t, app.loadingDetail)
	assert.Contains(t, app.View(), "Batman")

	openCmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, openCmd)
	app.Update(openCmd())
	assert.Equal(t, []string{"https://www.themoviedb.org/movie/1"}, opener.opened)
	assert.Contains(t, app.status, "Opened")

	posterCmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlP})
	app.Update(posterCmd())
	assert.Equal(t, "https://image.tmdb.org/t/p/original/b.jpg", opener.opened[1])

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewResults, app.view)
	assert.Nil(t, app.coord.Selected())
	assert.False(t, app.coord.Frame().ShowDetail)
}

func TestOpenWithoutOpenerShowsToast(t *testing.T) {
	app, opener := newTestApp(t, &fakeSearcher{pages: batmanPages()}, nil)
	opener.missing = true
	submit(t, app, "batman")
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	press(app, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Empty(t, opener.opened)
	assert.Equal(t, []string{MsgNoOpener("xdg-open")}, app.toasts.texts())
}

func TestStaleDetailRenderIsIgnored(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{pages: batmanPages()}, nil)
	submit(t, app, "batman")
	press(app, tea.KeyMsg{Type: tea.KeyEnter})

	app.Update(detailRenderedMsg{movieID: 999, content: "other movie"})
	assert.True(t, app.loadingDetail)
}

func TestRecallFindsFetchedMovies(t *testing.T) {
	idx, err := search.NewSessionIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	app, _ := newTestApp(t, &fakeSearcher{pages: batmanPages()}, idx)
	submit(t, app, "batman")

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "fetched page is indexed for recall")

	press(app, tea.KeyMsg{Type: tea.KeyCtrlF})
	require.Equal(t, ViewRecall, app.view)
	assert.True(t, app.recallInput.Focused())

	_, cmd := app.Update(runes("batm"))
	require.NotNil(t, cmd)
	app.Update(app.performRecall("batm")())
	require.Len(t, app.recallList.Items(), 1)
	assert.Contains(t, app.status, "1 result")

	press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewDetail, app.view)
	assert.Equal(t, "Batman", app.coord.Selected().Title)

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewRecall, app.view, "detail opened from recall returns there")

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewResults, app.view)
	assert.Empty(t, app.recallList.Items())
}

func TestRecallWithoutIndex(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlF})

	msg := app.performRecall("anything")()
	app.Update(msg)
	assert.Empty(t, app.recallList.Items())
	assert.Contains(t, app.View(), MsgRecallEmpty)
}

func TestErrorMsgShownInStatusBar(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{}, nil)
	app.Update(errorMsg{err: errors.New("failed to open")})
	assert.Contains(t, app.View(), "✗ failed to open")

	app.searchInput.Blur()
	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, app.err)
}

func TestHelpToggle(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{pages: batmanPages()}, nil)
	submit(t, app, "batman")

	press(app, runes("?"))
	assert.True(t, app.help.ShowAll)
	press(app, runes("?"))
	assert.False(t, app.help.ShowAll)
}

func TestQuit(t *testing.T) {
	app, _ := newTestApp(t, &fakeSearcher{pages: batmanPages()}, nil)
	submit(t, app, "batman")

	cmd := press(app, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
