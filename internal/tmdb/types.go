package tmdb

import (
	"fmt"
	"strings"
)

// Movie is one entry of a /search/movie result page.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
}

// SearchPage is the envelope TMDB returns for paginated searches.
type SearchPage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Year returns the release year, or "" when TMDB has no date.
func (m Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return ""
}

// DisplayTitle falls back to the original title for untranslated entries.
func (m Movie) DisplayTitle() string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(m.OriginalTitle); t != "" {
		return t
	}
	return fmt.Sprintf("Untitled #%d", m.ID)
}

// PageURL is the public TMDB web page for the movie.
func (m Movie) PageURL() string {
	return fmt.Sprintf("https://www.themoviedb.org/movie/%d", m.ID)
}

// ImageURL joins an image base (https://image.tmdb.org/t/p), a size such as
// "w342" or "original", and a TMDB file path. Empty paths yield "".
func ImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return strings.TrimRight(base, "/") + "/" + size + "/" + strings.TrimLeft(path, "/")
}

// PosterURL returns the poster image URL at the given size.
func (m Movie) PosterURL(base, size string) string {
	return ImageURL(base, size, m.PosterPath)
}

// BackdropURL returns the backdrop image URL at the given size.
func (m Movie) BackdropURL(base, size string) string {
	return ImageURL(base, size, m.BackdropPath)
}
