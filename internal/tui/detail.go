package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/pders01/reel/internal/tmdb"
)

type detailRenderedMsg struct {
	movieID int64
	content string
}

// detailRenderer caches a glamour renderer for the last used wrap width.
type detailRenderer struct {
	mu            sync.Mutex
	renderer      *glamour.TermRenderer
	rendererWidth int
}

func wrapWidth(width int) int {
	w := (width * 9) / 10
	if w > 100 {
		w = 100
	}
	if w < 40 {
		w = 40
	}
	if width < 50 {
		w = width - 4
		if w < 20 {
			w = 20
		}
	}
	return w
}

func (d *detailRenderer) get(width int) (*glamour.TermRenderer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := wrapWidth(width)
	if d.renderer == nil || abs(d.rendererWidth-w) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(w),
		)
		if err != nil {
			return nil, err
		}
		d.renderer = r
		d.rendererWidth = w
	}
	return d.renderer, nil
}

func (d *detailRenderer) Render(markdown string, width int) (string, error) {
	r, err := d.get(width)
	if err != nil {
		return "", wrapErr("init renderer", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out, err := r.Render(markdown)
	if err != nil {
		return "", wrapErr("render markdown", err)
	}
	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// movieMarkdown builds the detail document for m.
func movieMarkdown(m tmdb.Movie, imageBase, posterSize string) string {
	var b strings.Builder

	title := m.DisplayTitle()
	if year := m.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		fmt.Fprintf(&b, "*%s*\n\n", m.OriginalTitle)
	}

	var facts []string
	if m.VoteCount > 0 {
		facts = append(facts, fmt.Sprintf("**Rating:** ★ %.1f/10 (%d votes)", m.VoteAverage, m.VoteCount))
	}
	if m.ReleaseDate != "" {
		facts = append(facts, "**Released:** "+m.ReleaseDate)
	}
	if m.OriginalLanguage != "" {
		facts = append(facts, "**Language:** "+strings.ToUpper(m.OriginalLanguage))
	}
	if m.Popularity > 0 {
		facts = append(facts, fmt.Sprintf("**Popularity:** %.1f", m.Popularity))
	}
	if m.Adult {
		facts = append(facts, "**Adult**")
	}
	if len(facts) > 0 {
		b.WriteString(strings.Join(facts, " • "))
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n")
	if overview := strings.TrimSpace(m.Overview); overview != "" {
		b.WriteString(overview)
	} else {
		b.WriteString("_No overview available._")
	}
	b.WriteString("\n\n---\n\n")

	fmt.Fprintf(&b, "- TMDB: %s\n", m.PageURL())
	if poster := m.PosterURL(imageBase, posterSize); poster != "" {
		fmt.Fprintf(&b, "- Poster: %s\n", poster)
	}
	if backdrop := m.BackdropURL(imageBase, "w780"); backdrop != "" {
		fmt.Fprintf(&b, "- Backdrop: %s\n", backdrop)
	}
	return b.String()
}
