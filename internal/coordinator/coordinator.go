// Package coordinator owns the search session state: the active query, the
// page and the selected movie. It derives what the UI should render from the
// query store and decides when a notification is due.
package coordinator

import (
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/query"
	"github.com/pders01/reel/internal/tmdb"
)

const (
	MsgFetchError = "There was an error, please try again..."
	MsgNoResults  = "No movies found for your request."
)

// NotificationKind separates failures from informational notices.
type NotificationKind int

const (
	NotifyError NotificationKind = iota
	NotifyEmpty
)

// Notification is a transient message for the user.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Store is the keyed query store the coordinator drives.
type Store interface {
	Observe(key query.Key) (query.Result, bool)
	Settle(key query.Key, page *tmdb.SearchPage, err error) query.Result
	Result() query.Result
}

var _ Store = (*query.Client)(nil)

// Effect tells the caller what to do after a state change.
type Effect struct {
	Key           query.Key
	NeedFetch     bool
	Notifications []Notification
}

// Frame is everything a view needs to render one screen.
type Frame struct {
	Query         string
	Page          int
	Movies        []tmdb.Movie
	TotalPages    int
	TotalResults  int
	Selected      *tmdb.Movie
	IsPlaceholder bool

	ShowPager  bool
	ShowLoader bool
	ShowError  bool
	ShowGrid   bool
	ShowDetail bool
}

type signal struct {
	status  query.Status
	version uint64
}

// Coordinator is not safe for concurrent use. It lives on the UI loop.
type Coordinator struct {
	store    Store
	query    string
	page     int
	selected *tmdb.Movie
	last     signal
}

// New returns a coordinator with no active search.
func New(store Store) *Coordinator {
	c := &Coordinator{store: store, page: 1}
	res, _ := store.Observe(c.Key())
	c.last = signal{status: res.Status, version: res.Version}
	return c
}

// Key is the query key for the current state.
func (c *Coordinator) Key() query.Key {
	return query.Key{Query: c.query, Page: c.page}
}

// Query returns the active search string.
func (c *Coordinator) Query() string { return c.query }

// Page returns the active 1-based page.
func (c *Coordinator) Page() int { return c.page }

// SubmitSearch starts a new search. The page always restarts at 1.
func (c *Coordinator) SubmitSearch(q string) Effect {
	debuglog.Debugf("coordinator: search %q (was %q page %d)", q, c.query, c.page)
	c.query = q
	c.page = 1
	return c.observe()
}

// ChangePage takes the 0-based index emitted by the pager.
func (c *Coordinator) ChangePage(selected int) Effect {
	page := selected + 1
	if page < 1 {
		page = 1
	}
	if total := c.totalPages(); total > 0 && page > total {
		page = total
	}
	debuglog.Debugf("coordinator: page %d -> %d", c.page, page)
	c.page = page
	return c.observe()
}

// Select opens the detail overlay for m, replacing any open selection.
func (c *Coordinator) Select(m tmdb.Movie) {
	c.selected = &m
}

// CloseDetail clears the selection.
func (c *Coordinator) CloseDetail() {
	c.selected = nil
}

// Selected returns the open movie, if any.
func (c *Coordinator) Selected() *tmdb.Movie {
	return c.selected
}

// Resolve feeds a finished fetch back into the store.
func (c *Coordinator) Resolve(key query.Key, page *tmdb.SearchPage, err error) Effect {
	if err != nil {
		debuglog.Warnf("coordinator: fetch %s failed: %v", key, err)
	}
	res := c.store.Settle(key, page, err)
	return Effect{Key: c.Key(), Notifications: c.react(res)}
}

// Frame derives the render state.
func (c *Coordinator) Frame() Frame {
	res := c.store.Result()

	f := Frame{
		Query:         c.query,
		Page:          c.page,
		Selected:      c.selected,
		IsPlaceholder: res.IsPlaceholder,
	}
	if res.Data != nil {
		f.Movies = res.Data.Results
		f.TotalPages = res.Data.TotalPages
		f.TotalResults = res.Data.TotalResults
	}

	f.ShowPager = f.TotalPages > 1
	f.ShowLoader = res.IsFetching
	f.ShowError = res.IsError && !res.IsFetching
	f.ShowGrid = len(f.Movies) > 0
	f.ShowDetail = c.selected != nil
	return f
}

func (c *Coordinator) observe() Effect {
	key := c.Key()
	res, need := c.store.Observe(key)
	return Effect{Key: key, NeedFetch: need, Notifications: c.react(res)}
}

func (c *Coordinator) totalPages() int {
	res := c.store.Result()
	if res.Data == nil {
		return 0
	}
	return res.Data.TotalPages
}

// react emits at most one notification per distinct (status, version) signal.
func (c *Coordinator) react(res query.Result) []Notification {
	sig := signal{status: res.Status, version: res.Version}
	if sig == c.last {
		return nil
	}
	c.last = sig

	if res.IsFetching {
		return nil
	}

	switch {
	case res.IsError:
		debuglog.Debugf("coordinator: notify error for %s", res.Key)
		return []Notification{{Kind: NotifyError, Message: MsgFetchError}}
	case res.IsSuccess() && !res.IsPlaceholder && res.Data != nil && len(res.Data.Results) == 0:
		debuglog.Debugf("coordinator: notify empty result for %s", res.Key)
		return []Notification{{Kind: NotifyEmpty, Message: MsgNoResults}}
	}
	return nil
}
