package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/search"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, config: cfg, modifierKey: cfg.Keys.Modifier + "+"}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewResults:
		return kh.app.searchInput.Focused()
	case ViewRecall:
		return kh.app.recallInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return kh.app, tea.Quit
	case "esc":
		return kh.navigateBack()
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		switch kh.app.view {
		case ViewRecall:
			if len(kh.app.recallList.Items()) > 0 {
				kh.app.recallInput.Blur()
				kh.app.recallList.Select(0)
			}
			return kh.app, nil
		case ViewResults:
			if kh.app.grid.Len() > 0 {
				kh.app.searchInput.Blur()
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewResults:
		return kh.app, kh.app.submitSearch(kh.app.searchInput.Value())

	case ViewRecall:
		if items := kh.app.recallList.Items(); len(items) > 0 {
			if i, ok := items[0].(recallItem); ok {
				return kh.app, kh.app.openDetail(i.result.Movie, true)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewResults:
		var cmd tea.Cmd
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
		return kh.app, cmd

	case ViewRecall:
		prev := sanitizeQuery(kh.app.recallInput.Value())
		var cmd tea.Cmd
		kh.app.recallInput, cmd = kh.app.recallInput.Update(msg)

		q := sanitizeQuery(kh.app.recallInput.Value())
		if q == prev {
			return kh.app, cmd
		}
		if len([]rune(q)) < 2 {
			kh.app.recallList.SetItems([]list.Item{})
			return kh.app, cmd
		}
		return kh.app, tea.Batch(cmd, kh.app.performRecall(q))

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	keys := kh.app.keys

	switch {
	case key.Matches(msg, keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, keys.Help):
		kh.app.help.ShowAll = !kh.app.help.ShowAll
		return kh.app, nil, true
	case key.Matches(msg, keys.Recall) && kh.app.view != ViewRecall:
		model, cmd := kh.enterRecallMode()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewResults:
		return kh.handleResultsCustomKeys(msg)
	case ViewDetail:
		return kh.handleDetailCustomKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleResultsCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	keys := a.keys

	switch {
	case key.Matches(msg, keys.Search):
		return a, a.searchInput.Focus(), true
	case key.Matches(msg, keys.Select):
		if m, ok := a.grid.Selected(); ok {
			return a, a.openDetail(m, false), true
		}
		return a, nil, true
	case key.Matches(msg, keys.NextPage, keys.PrevPage):
		if !a.coord.Frame().ShowPager {
			return a, nil, true
		}
		prev := a.pager.Page
		a.pager, _ = a.pager.Update(msg)
		if a.pager.Page == prev {
			return a, nil, true
		}
		return a, a.changePage(a.pager.Page), true
	case key.Matches(msg, keys.Open):
		if m, ok := a.grid.Selected(); ok {
			return a, a.openURL(m.PageURL()), true
		}
		return a, nil, true
	case key.Matches(msg, keys.Poster):
		if m, ok := a.grid.Selected(); ok {
			return a, a.openURL(m.PosterURL(a.config.TMDB.ImageBaseURL, "original")), true
		}
		return a, nil, true
	case key.Matches(msg, keys.Up):
		a.grid.Move(0, -1)
		return a, nil, true
	case key.Matches(msg, keys.Down):
		a.grid.Move(0, 1)
		return a, nil, true
	case key.Matches(msg, keys.Left):
		a.grid.Move(-1, 0)
		return a, nil, true
	case key.Matches(msg, keys.Right):
		a.grid.Move(1, 0)
		return a, nil, true
	}
	return a, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	sel := a.coord.Selected()
	if sel == nil {
		return a, nil, false
	}

	switch {
	case key.Matches(msg, a.keys.Open):
		return a, a.openURL(sel.PageURL()), true
	case key.Matches(msg, a.keys.Poster):
		return a, a.openURL(sel.PosterURL(a.config.TMDB.ImageBaseURL, "original")), true
	}
	return a, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd

	switch a.view {
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case ViewRecall:
		if !a.recallInput.Focused() {
			switch msg.String() {
			case "tab", "shift+tab", "/":
				return a, a.recallInput.Focus()
			case "up":
				if len(a.recallList.Items()) > 0 && a.recallList.Index() == 0 {
					return a, a.recallInput.Focus()
				}
			}
		}

		a.recallList, cmd = a.recallList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := a.recallList.SelectedItem().(recallItem); ok {
				return a, a.openDetail(i.result.Movie, true)
			}
		}
		return a, cmd

	default:
		return a, nil
	}
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewDetail:
		a.closeDetail()
		return a, nil

	case ViewRecall:
		a.view = ViewResults
		a.recallInput.Reset()
		a.recallInput.Blur()
		a.recallList.SetItems([]list.Item{})
		return a, nil

	default:
		if a.err != nil {
			a.err = nil
			return a, nil
		}
		if a.searchInput.Focused() {
			if a.grid.Len() > 0 {
				a.searchInput.Blur()
			}
			return a, nil
		}
		return a, a.searchInput.Focus()
	}
}

func (kh *KeyHandler) enterRecallMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.searchInput.Blur()
	a.view = ViewRecall
	a.recallInput.Reset()
	a.recallList.SetItems([]list.Item{})
	a.status = ""
	if ds, ok := a.index.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			a.status = MsgRecallCount(0, n)
		}
	}
	return a, a.recallInput.Focus()
}

// helpKeys returns the bindings relevant to the current view.
func (kh *KeyHandler) helpKeys() help.KeyMap {
	switch kh.app.view {
	case ViewDetail:
		return detailKeys{kh.app.keys}
	case ViewRecall:
		return recallKeys{kh.app.keys}
	default:
		return kh.app.keys
	}
}
