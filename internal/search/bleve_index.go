package search

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/tmdb"
)

const minQueryLen = 2

// SessionIndex is an in-memory full-text index of every movie seen during
// this run. Nothing is written to disk.
type SessionIndex struct {
	idx bleve.Index

	mu     sync.RWMutex
	movies map[int64]tmdb.Movie
}

var (
	_ Searcher       = (*SessionIndex)(nil)
	_ UpdateListener = (*SessionIndex)(nil)
	_ DebugStatser   = (*SessionIndex)(nil)
)

// NewSessionIndex creates an empty in-memory index.
func NewSessionIndex() (*SessionIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create session index: %w", err)
	}
	return &SessionIndex{idx: idx, movies: make(map[int64]tmdb.Movie)}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = false
	title.IncludeTermVectors = true

	original := bleve.NewTextFieldMapping()
	original.Analyzer = standard.Name
	original.Store = false

	overview := bleve.NewTextFieldMapping()
	overview.Analyzer = standard.Name
	overview.Store = false

	year := bleve.NewTextFieldMapping()
	year.Analyzer = keyword.Name
	year.Store = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("original_title", original)
	dm.AddFieldMappingsAt("overview", overview)
	dm.AddFieldMappingsAt("year", year)

	im.DefaultMapping = dm
	return im
}

// Add indexes movies, replacing earlier copies with the same id.
func (s *SessionIndex) Add(movies []tmdb.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	batch := s.idx.NewBatch()
	for _, m := range movies {
		if err := batch.Index(docID(m.ID), map[string]any{
			"title":          m.Title,
			"original_title": m.OriginalTitle,
			"overview":       m.Overview,
			"year":           m.Year(),
		}); err != nil {
			return fmt.Errorf("index movie %d: %w", m.ID, err)
		}
	}
	if err := s.idx.Batch(batch); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}

	s.mu.Lock()
	for _, m := range movies {
		s.movies[m.ID] = m
	}
	s.mu.Unlock()
	return nil
}

// OnMoviesFetched indexes a fetched page, logging rather than returning errors.
func (s *SessionIndex) OnMoviesFetched(movies []tmdb.Movie) {
	if err := s.Add(movies); err != nil {
		debuglog.Warnf("session index: %v", err)
	}
}

// Search runs query against titles, overviews and release years.
func (s *SessionIndex) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < minQueryLen {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qo := bleve.NewMatchQuery(tok)
		qo.SetField("original_title")
		qo.SetBoost(2.5)
		qs = append(qs, qo)

		qd := bleve.NewMatchQuery(tok)
		qd.SetField("overview")
		qd.SetBoost(1.0)
		qs = append(qs, qd)
		qdp := bleve.NewPrefixQuery(tok)
		qdp.SetField("overview")
		qdp.SetBoost(0.8)
		qs = append(qs, qdp)

		if isYear(tok) {
			qy := bleve.NewTermQuery(tok)
			qy.SetField("year")
			qy.SetBoost(3.0)
			qs = append(qs, qy)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search session index: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, ok := parseDocID(h.ID)
		if !ok {
			continue
		}
		m, ok := s.movies[id]
		if !ok {
			continue
		}
		out = append(out, &Result{Movie: m, Score: h.Score})
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (s *SessionIndex) DocCount() (int, error) {
	n, err := s.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the index.
func (s *SessionIndex) Close() error {
	return s.idx.Close()
}

func docID(id int64) string { return "movie:" + strconv.FormatInt(id, 10) }

func parseDocID(doc string) (int64, bool) {
	raw, ok := strings.CutPrefix(doc, "movie:")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

func isYear(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit. Single characters are dropped.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}
	if len([]rune(current.String())) > 1 {
		terms = append(terms, current.String())
	}
	return terms
}
