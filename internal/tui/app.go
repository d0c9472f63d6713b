package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/coordinator"
	"github.com/pders01/reel/internal/media"
	"github.com/pders01/reel/internal/query"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/tmdb"
)

// urlOpener is the part of media.Launcher the app uses.
type urlOpener interface {
	Open(target string) error
	Available() bool
	Opener() string
}

var _ urlOpener = (*media.Launcher)(nil)

type App struct {
	config     *config.Config
	store      *query.Client
	coord      *coordinator.Coordinator
	index      search.Searcher
	launcher   urlOpener
	renderer   *detailRenderer
	keyHandler *KeyHandler
	keys       keyMap

	searchInput textinput.Model
	recallInput textinput.Model
	recallList  list.Model
	grid        movieGrid
	pager       paginator.Model
	spinner     spinner.Model
	viewport    viewport.Model
	help        help.Model
	toasts      toastStack

	view          View
	previousView  View
	loadingDetail bool
	spinning      bool
	status        string
	width         int
	height        int
	err           error
}

// NewApp wires the TUI to a TMDB searcher. index may be nil, which disables
// recall results.
func NewApp(cfg *config.Config, api tmdb.Searcher, index search.Searcher) *App {
	ApplyColors(cfg.UI.Colors)

	store := query.New(api.SearchMovies,
		query.WithStaleTime(cfg.Cache.StaleTime),
		query.WithCacheTime(cfg.Cache.CacheTime),
	)

	si := textinput.New()
	si.Placeholder = "Search movies..."
	si.Prompt = "› "
	si.CharLimit = maxQueryLength
	si.Focus()

	ri := textinput.New()
	ri.Placeholder = "Recall movies seen this session..."
	ri.Prompt = "› "
	ri.CharLimit = maxQueryLength

	keys := newKeyMap(cfg.Keys)

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.ArabicFormat = "page %d of %d"
	pg.KeyMap = paginator.KeyMap{
		PrevPage: keys.PrevPage,
		NextPage: keys.NextPage,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:      cfg,
		store:       store,
		coord:       coordinator.New(store),
		index:       index,
		launcher:    media.NewLauncher(cfg),
		renderer:    &detailRenderer{},
		keys:        keys,
		searchInput: si,
		recallInput: ri,
		recallList:  newRecallList(),
		grid:        newMovieGrid(cfg.UI.CardWidth),
		pager:       pg,
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		toasts:      newToastStack(cfg.UI.ToastDuration),
		view:        ViewResults,
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case moviesFetchedMsg:
		return a, a.apply(a.coord.Resolve(msg.key, msg.page, msg.err))

	case toastExpiredMsg:
		a.toasts.dismiss(msg.id)
		return a, nil

	case spinner.TickMsg:
		if !a.coord.Frame().ShowLoader {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case detailRenderedMsg:
		if sel := a.coord.Selected(); a.view == ViewDetail && sel != nil && sel.ID == msg.movieID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
		}
		return a, nil

	case recallResultsMsg:
		if a.view == ViewRecall && sanitizeQuery(a.recallInput.Value()) == msg.query {
			a.recallList.SetItems(recallItems(msg.results))
			indexed := -1
			if ds, ok := a.index.(search.DebugStatser); ok {
				if n, err := ds.DocCount(); err == nil {
					indexed = n
				}
			}
			if indexed >= 0 {
				a.status = MsgRecallCount(len(msg.results), indexed)
			} else {
				a.status = MsgResultsCount(len(msg.results))
			}
		}
		return a, nil

	case openedMsg:
		a.err = nil
		a.status = MsgOpened(msg.target)
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	switch {
	case a.view == ViewResults && a.searchInput.Focused():
		a.searchInput, cmd = a.searchInput.Update(msg)
	case a.view == ViewRecall && a.recallInput.Focused():
		a.recallInput, cmd = a.recallInput.Update(msg)
	}
	return a, cmd
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.help.Width = width

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.searchInput.Width = inputWidth
	a.recallInput.Width = inputWidth

	a.grid.SetSize(width, a.bodyHeight())
	a.recallList.SetSize(width, a.bodyHeight())

	a.viewport.Width = width - 4
	a.viewport.Height = height - 6
	if a.viewport.Height < 3 {
		a.viewport.Height = 3
	}
}

// bodyHeight is what is left after header, input frame, pager and status bar.
func (a *App) bodyHeight() int {
	h := a.height - 10
	if h < cardHeight {
		h = cardHeight
	}
	return h
}

// apply turns a coordinator effect into commands and refreshes the widgets.
func (a *App) apply(eff coordinator.Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.NeedFetch {
		cmds = append(cmds, a.fetchMovies(eff.Key))
		if !a.spinning {
			a.spinning = true
			cmds = append(cmds, a.spinner.Tick)
		}
	}
	for _, n := range eff.Notifications {
		kind := StatusError
		if n.Kind == coordinator.NotifyEmpty {
			kind = StatusWarn
		}
		cmds = append(cmds, a.toasts.push(kind, n.Message))
	}
	a.syncFrame()
	return tea.Batch(cmds...)
}

func (a *App) syncFrame() {
	f := a.coord.Frame()
	a.grid.SetMovies(f.Movies)

	total := f.TotalPages
	if total < 1 {
		total = 1
	}
	a.pager.TotalPages = total
	page := f.Page - 1
	if page >= total {
		page = total - 1
	}
	if page < 0 {
		page = 0
	}
	a.pager.Page = page
}

func (a *App) submitSearch(raw string) tea.Cmd {
	q := sanitizeQuery(raw)
	if q == "" {
		return a.toasts.push(StatusWarn, MsgBlankQuery)
	}
	a.searchInput.SetValue(q)
	a.searchInput.Blur()
	a.grid.Reset()
	a.err = nil
	a.status = ""
	return a.apply(a.coord.SubmitSearch(q))
}

func (a *App) changePage(selected int) tea.Cmd {
	a.grid.Reset()
	return a.apply(a.coord.ChangePage(selected))
}

func (a *App) openDetail(m tmdb.Movie, fromRecall bool) tea.Cmd {
	a.coord.Select(m)
	a.previousView = ViewResults
	if fromRecall {
		a.previousView = ViewRecall
	}
	a.view = ViewDetail
	a.loadingDetail = true
	a.viewport.SetContent("")
	return a.renderDetail(m)
}

func (a *App) closeDetail() {
	a.coord.CloseDetail()
	a.loadingDetail = false
	a.view = a.previousView
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewDetail:
		content = a.detailView()
	case ViewRecall:
		content = a.recallView()
	default:
		content = a.resultsView()
	}

	rows := []string{}
	if toasts := a.toasts.view(a.width); toasts != "" {
		rows = append(rows, toasts)
	}
	rows = append(rows, content, renderSeparator(a.width-1), a.statusBar())
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func (a *App) resultsView() string {
	f := a.coord.Frame()

	subtitle := "Search The Movie Database"
	if f.Query != "" && (f.ShowGrid || f.TotalResults > 0) {
		subtitle = MsgSearchSummary(f.Query, f.TotalResults, f.Page, f.TotalPages)
	}
	header := renderHeader("› "+AppName, subtitle, a.width)
	input := renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width)

	rows := []string{header, input}
	if f.ShowPager {
		rows = append(rows, renderMuted(fmt.Sprintf("%s  ←  %s  →  %s",
			a.keys.PrevPage.Help().Key, a.pager.View(), a.keys.NextPage.Help().Key)))
	}

	var body string
	switch {
	case f.ShowError:
		body = renderCentered(a.width, a.bodyHeight(), ErrorMessageStyle.Render("✗ "+MsgErrorBanner))
	case f.ShowGrid:
		if f.ShowLoader {
			rows = append(rows, a.spinner.View()+" "+renderMuted(MsgSearching))
		}
		body = a.grid.View()
	case f.ShowLoader:
		body = renderCentered(a.width, a.bodyHeight(), a.spinner.View()+" "+renderMuted(MsgSearching))
	case f.Query == "":
		body = renderCentered(a.width, a.bodyHeight(), GetWelcomeMessage())
	}
	rows = append(rows, body)

	return lipgloss.NewStyle().
		Width(a.width).
		MaxHeight(a.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Top, rows...))
}

func (a *App) detailView() string {
	sel := a.coord.Selected()
	title := ""
	if sel != nil {
		title = sel.DisplayTitle()
	}
	header := renderHeader("› "+title, truncateMiddle(a.selectedPageURL(), a.width-4), a.width)

	var body string
	if a.loadingDetail {
		body = renderCentered(a.viewport.Width, a.viewport.Height, a.spinner.View()+" "+renderMuted("Loading details…"))
	} else {
		body = a.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Top, header, OverlayStyle.Render(body))
}

func (a *App) selectedPageURL() string {
	if sel := a.coord.Selected(); sel != nil {
		return sel.PageURL()
	}
	return ""
}

func (a *App) recallView() string {
	header := renderHeader("› recall", "Search movies already loaded this session, no network", a.width)
	input := renderInputFrame(a.recallInput.View(), a.recallInput.Focused(), a.recallInput.Width)

	var body string
	if len(a.recallList.Items()) == 0 {
		body = renderCentered(a.width, a.bodyHeight(), renderHelp(MsgRecallEmpty))
	} else {
		body = a.recallList.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		MaxHeight(a.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Top, header, input, body))
}

func (a *App) statusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}
	line := a.help.View(a.keyHandler.helpKeys())
	if a.status != "" {
		line = renderMuted(a.status) + "  " + line
	}
	return StatusBarStyle.Width(a.width).Render(line)
}
