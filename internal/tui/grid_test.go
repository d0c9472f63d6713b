package tui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/reel/internal/tmdb"
)

func sampleMovies(n int) []tmdb.Movie {
	out := make([]tmdb.Movie, n)
	for i := range out {
		out[i] = tmdb.Movie{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Movie %d", i+1),
			ReleaseDate: "1999-03-31",
			VoteAverage: 7.5,
			VoteCount:   10,
		}
	}
	return out
}

func TestGridNavigation(t *testing.T) {
	g := newMovieGrid(18)
	g.SetSize(60, 24) // 3 columns of 20
	g.SetMovies(sampleMovies(7))
	require.Equal(t, 3, g.columns())

	g.Move(1, 0)
	assert.Equal(t, 1, g.Cursor())
	g.Move(0, 1)
	assert.Equal(t, 4, g.Cursor())
	g.Move(0, 1)
	assert.Equal(t, 6, g.Cursor(), "moving past the last row clamps to the last card")
	g.Move(-10, 0)
	assert.Equal(t, 0, g.Cursor())

	m, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, "Movie 1", m.Title)
}

func TestGridSetMoviesKeepsOrResetsCursor(t *testing.T) {
	g := newMovieGrid(20)
	g.SetSize(100, 30)
	g.SetMovies(sampleMovies(10))
	g.Move(3, 0)

	g.SetMovies(sampleMovies(5))
	assert.Equal(t, 3, g.Cursor())

	g.SetMovies(sampleMovies(2))
	assert.Equal(t, 0, g.Cursor())

	g.SetMovies(nil)
	_, ok := g.Selected()
	assert.False(t, ok)
	assert.Empty(t, g.View())
}

func TestGridScrollsToCursor(t *testing.T) {
	g := newMovieGrid(18)
	g.SetSize(20, cardHeight*2) // one column, two visible rows
	g.SetMovies(sampleMovies(6))

	g.Move(0, 4)
	assert.Equal(t, 4, g.Cursor())
	assert.Equal(t, 3, g.offset)

	view := g.View()
	assert.Contains(t, view, "Movie 5")
	assert.NotContains(t, view, "Movie 1")
}

func TestGridCardContents(t *testing.T) {
	g := newMovieGrid(30)
	g.SetSize(120, 40)
	g.SetMovies([]tmdb.Movie{
		{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9, VoteCount: 7000},
		{ID: 2, Title: "Unreleased"},
	})

	view := g.View()
	assert.Contains(t, view, "Heat")
	assert.Contains(t, view, "1995")
	assert.Contains(t, view, "★ 7.9")
	assert.Contains(t, view, "no votes")
}

func TestGridMinimumCardWidth(t *testing.T) {
	g := newMovieGrid(3)
	assert.Equal(t, minCardWidth, g.cardWidth)
}
