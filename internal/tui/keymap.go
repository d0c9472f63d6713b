package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/reel/internal/config"
)

// keyMap holds the bindings shown in the help bar. Action keys (search,
// recall, open, poster) take the configured modifier; the rest are plain.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Search   key.Binding
	Recall   key.Binding
	Open     key.Binding
	Poster   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap(cfg config.KeyConfig) keyMap {
	mod := cfg.Modifier + "+"
	b := cfg.Bindings
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search:   key.NewBinding(key.WithKeys(mod+b.Search, "/"), key.WithHelp(mod+b.Search+"//", "search")),
		Recall:   key.NewBinding(key.WithKeys(mod+b.Recall), key.WithHelp(mod+b.Recall, "recall")),
		Open:     key.NewBinding(key.WithKeys(mod+b.Open), key.WithHelp(mod+b.Open, "open tmdb")),
		Poster:   key.NewBinding(key.WithKeys(mod+b.Poster), key.WithHelp(mod+b.Poster, "poster")),
		NextPage: key.NewBinding(key.WithKeys(b.NextPage, "pgdown"), key.WithHelp(b.NextPage, "next page")),
		PrevPage: key.NewBinding(key.WithKeys(b.PrevPage, "pgup"), key.WithHelp(b.PrevPage, "prev page")),
		Back:     key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Help:     key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Quit:     key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Select, k.PrevPage, k.NextPage, k.Recall, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Open, k.Poster, k.Back},
		{k.Search, k.Recall, k.PrevPage, k.NextPage},
		{k.Help, k.Quit},
	}
}

// detailKeys is the help shown while the detail overlay is open.
type detailKeys struct{ keyMap }

func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Poster, k.Back, k.Quit}
}

func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Open, k.Poster, k.Back, k.Quit}}
}

// recallKeys is the help shown in the recall view.
type recallKeys struct{ keyMap }

func (k recallKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back}
}

func (k recallKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Back}}
}
