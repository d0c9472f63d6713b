package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/reel/internal/tmdb"
)

const (
	minCardWidth = 16
	cardHeight   = 6 // border + title + year + rating + overview line
)

// movieGrid lays result cards out in rows and tracks the highlighted card.
type movieGrid struct {
	movies    []tmdb.Movie
	cursor    int
	offset    int // first visible row
	cardWidth int
	width     int
	height    int
}

func newMovieGrid(cardWidth int) movieGrid {
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	return movieGrid{cardWidth: cardWidth}
}

func (g *movieGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.scrollToCursor()
}

// SetMovies replaces the cards. The cursor is kept when it still points at a card.
func (g *movieGrid) SetMovies(movies []tmdb.Movie) {
	g.movies = movies
	if g.cursor >= len(movies) {
		g.cursor = 0
		g.offset = 0
	}
	g.scrollToCursor()
}

func (g *movieGrid) Reset() {
	g.cursor = 0
	g.offset = 0
}

func (g *movieGrid) Len() int { return len(g.movies) }

func (g *movieGrid) Cursor() int { return g.cursor }

func (g *movieGrid) Selected() (tmdb.Movie, bool) {
	if g.cursor < 0 || g.cursor >= len(g.movies) {
		return tmdb.Movie{}, false
	}
	return g.movies[g.cursor], true
}

func (g *movieGrid) columns() int {
	outer := g.cardWidth + 2
	if g.width <= 0 {
		return 1
	}
	cols := g.width / outer
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (g *movieGrid) visibleRows() int {
	rows := g.height / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Move shifts the cursor by dx cards and dy rows, clamped to the grid.
func (g *movieGrid) Move(dx, dy int) {
	if len(g.movies) == 0 {
		return
	}
	next := g.cursor + dx + dy*g.columns()
	if next < 0 {
		next = 0
	}
	if next >= len(g.movies) {
		next = len(g.movies) - 1
	}
	g.cursor = next
	g.scrollToCursor()
}

func (g *movieGrid) scrollToCursor() {
	row := g.cursor / g.columns()
	if row < g.offset {
		g.offset = row
	}
	if rows := g.visibleRows(); row >= g.offset+rows {
		g.offset = row - rows + 1
	}
}

func (g *movieGrid) View() string {
	if len(g.movies) == 0 {
		return ""
	}
	cols := g.columns()
	start := g.offset * cols
	end := start + g.visibleRows()*cols
	if end > len(g.movies) {
		end = len(g.movies)
	}

	var rows []string
	for i := start; i < end; i += cols {
		var cards []string
		for j := i; j < i+cols && j < end; j++ {
			cards = append(cards, g.renderCard(g.movies[j], j == g.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (g *movieGrid) renderCard(m tmdb.Movie, selected bool) string {
	inner := g.cardWidth - 2
	year := m.Year()
	if year == "" {
		year = "—"
	}
	rating := "no votes"
	if m.VoteCount > 0 {
		rating = fmt.Sprintf("★ %.1f (%d)", m.VoteAverage, m.VoteCount)
	}
	overview := strings.ReplaceAll(m.Overview, "\n", " ")

	body := lipgloss.JoinVertical(lipgloss.Left,
		CardTitleStyle.Render(truncateEnd(m.DisplayTitle(), inner)),
		renderMuted(year),
		RatingStyle.Render(truncateEnd(rating, inner)),
		renderMuted(truncateEnd(overview, inner)),
	)

	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}
	return style.Width(g.cardWidth).Render(body)
}
