package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxToasts = 3

type toast struct {
	id   int
	kind StatusKind
	text string
}

type toastExpiredMsg struct {
	id int
}

// toastStack holds transient notifications. Each toast removes itself after
// ttl via a tea.Tick.
type toastStack struct {
	items  []toast
	nextID int
	ttl    time.Duration
}

func newToastStack(ttl time.Duration) toastStack {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return toastStack{ttl: ttl}
}

// push adds a toast and returns the command that will expire it.
func (s *toastStack) push(kind StatusKind, text string) tea.Cmd {
	s.nextID++
	id := s.nextID
	s.items = append(s.items, toast{id: id, kind: kind, text: text})
	if len(s.items) > maxToasts {
		s.items = s.items[len(s.items)-maxToasts:]
	}
	return tea.Tick(s.ttl, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (s *toastStack) dismiss(id int) {
	for i, t := range s.items {
		if t.id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *toastStack) len() int { return len(s.items) }

func (s *toastStack) texts() []string {
	out := make([]string, len(s.items))
	for i, t := range s.items {
		out[i] = t.text
	}
	return out
}

func (s *toastStack) view(width int) string {
	if len(s.items) == 0 {
		return ""
	}
	maxWidth := width - 4
	if maxWidth < 10 {
		maxWidth = 10
	}
	rows := make([]string, 0, len(s.items))
	for _, t := range s.items {
		style := ToastInfoStyle
		prefix := "✓ "
		switch t.kind {
		case StatusWarn:
			style = ToastWarnStyle
			prefix = "! "
		case StatusError:
			style = ToastErrorStyle
			prefix = "✗ "
		}
		rows = append(rows, style.Render(truncateEnd(prefix+t.text, maxWidth)))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center, rows...))
}
