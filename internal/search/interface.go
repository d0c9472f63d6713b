package search

import "github.com/pders01/reel/internal/tmdb"

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener is notified whenever a page of movies has been fetched.
type UpdateListener interface {
	OnMoviesFetched(movies []tmdb.Movie)
}

// DebugStatser reports index doc counts.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one recalled movie.
type Result struct {
	Movie tmdb.Movie
	Score float64
}
