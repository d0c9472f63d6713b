// Package query is a keyed store for paginated search results. It decides
// when a key needs fetching, remembers outcomes per key and exposes a
// display snapshot that keeps the previous page visible while a new key loads.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/tmdb"
)

const (
	DefaultStaleTime = time.Minute
	DefaultCacheTime = 5 * time.Minute
)

// Status is the fetch state of the current key.
type Status int

const (
	StatusDisabled Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDisabled:
		return "disabled"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Key identifies one page of one search.
type Key struct {
	Query string
	Page  int
}

// Enabled reports whether the key may be fetched at all.
func (k Key) Enabled() bool {
	return k.Query != ""
}

func (k Key) String() string {
	return fmt.Sprintf("%q#%d", k.Query, k.Page)
}

// FetchFunc loads one page from the backend.
type FetchFunc func(ctx context.Context, query string, page int) (*tmdb.SearchPage, error)

// Result is a point-in-time view of the current key.
type Result struct {
	Key           Key
	Data          *tmdb.SearchPage
	Status        Status
	IsPlaceholder bool
	IsFetching    bool
	IsError       bool
	Err           error
	Version       uint64
}

// IsSuccess is true once the current key has resolved without error.
func (r Result) IsSuccess() bool { return r.Status == StatusSuccess }

type entry struct {
	data      *tmdb.SearchPage
	err       error
	updatedAt time.Time
	fetching  bool
	settled   bool
}

// Client is the store. It is safe for concurrent use.
type Client struct {
	fetch     FetchFunc
	staleTime time.Duration
	cacheTime time.Duration
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	entries  map[Key]*entry
	current  Key
	previous *tmdb.SearchPage
	version  uint64
}

// Option configures a Client.
type Option func(*Client)

// WithStaleTime sets how long a successful entry counts as fresh.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

// WithCacheTime sets how long an inactive entry is kept before eviction.
func WithCacheTime(d time.Duration) Option {
	return func(c *Client) { c.cacheTime = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a store that loads pages with fetch.
func New(fetch FetchFunc, opts ...Option) *Client {
	c := &Client{
		fetch:     fetch,
		staleTime: DefaultStaleTime,
		cacheTime: DefaultCacheTime,
		now:       time.Now,
		entries:   make(map[Key]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheTime < c.staleTime {
		c.cacheTime = c.staleTime
	}
	return c
}

// Observe makes key current and reports whether the caller has to start a
// fetch for it. Every observe of a key without a fresh entry asks for a
// fetch; concurrent Fetch calls for that key share one backend request.
func (c *Client) Observe(key Key) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepLocked(now)

	if key != c.current {
		c.current = key
		c.version++
	}

	if !key.Enabled() {
		return c.resultLocked(), false
	}

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}

	log := debuglog.WithFields(map[string]interface{}{"key": key.String()})
	if !e.fetching && e.settled && e.err == nil && now.Sub(e.updatedAt) < c.staleTime {
		c.previous = e.data
		log.Debugf("query cache hit")
		return c.resultLocked(), false
	}

	// A key that is already in flight is still reported as needing a fetch;
	// Fetch joins the running request instead of issuing a new one.
	if e.fetching {
		log.Debugf("query fetch requested while in flight")
		return c.resultLocked(), true
	}

	e.fetching = true
	c.version++
	log.Debugf("query fetch scheduled")
	return c.resultLocked(), true
}

// Fetch loads key through the fetch function. Concurrent calls for the same
// key share one backend request. The outcome is recorded with Settle.
func (c *Client) Fetch(ctx context.Context, key Key) (*tmdb.SearchPage, error) {
	v, err, shared := c.group.Do(key.String(), func() (interface{}, error) {
		return c.fetch(ctx, key.Query, key.Page)
	})
	if shared {
		debuglog.Debugf("query fetch for %s shared an in-flight request", key)
	}
	if err != nil {
		return nil, err
	}
	page, _ := v.(*tmdb.SearchPage)
	return page, nil
}

// Settle records the outcome of a fetch for key. Every outcome is cached;
// only an outcome for the current key changes what Result shows.
func (c *Client) Settle(key Key, page *tmdb.SearchPage, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	if ok && e.settled && !e.fetching {
		// Second delivery of a shared flight.
		return c.resultLocked()
	}
	e.fetching = false
	e.settled = true
	e.updatedAt = c.now()
	if err != nil {
		e.data = nil
		e.err = err
	} else {
		e.data = page
		e.err = nil
	}

	if key != c.current {
		debuglog.WithFields(map[string]interface{}{"key": key.String()}).Debugf("query settled for inactive key")
		return c.resultLocked()
	}

	if err != nil {
		c.previous = nil
	} else {
		c.previous = page
	}
	c.version++
	return c.resultLocked()
}

// Result returns a snapshot for the current key.
func (c *Client) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultLocked()
}

// Len reports the number of cached keys.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cached returns the stored page for key, if any.
func (c *Client) Cached(key Key) (*tmdb.SearchPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.settled || e.err != nil {
		return nil, false
	}
	return e.data, true
}

func (c *Client) resultLocked() Result {
	r := Result{Key: c.current, Version: c.version}
	if !c.current.Enabled() {
		r.Status = StatusDisabled
		return r
	}

	e := c.entries[c.current]
	if e == nil || !e.settled {
		r.Status = StatusLoading
		r.IsFetching = e != nil && e.fetching
		r.Data = c.previous
		r.IsPlaceholder = c.previous != nil
		return r
	}

	r.IsFetching = e.fetching
	if e.err != nil {
		r.Status = StatusError
		r.IsError = true
		r.Err = e.err
		return r
	}
	r.Status = StatusSuccess
	r.Data = e.data
	return r
}

// sweepLocked drops settled entries that are not current and were last
// updated more than cacheTime ago.
func (c *Client) sweepLocked(now time.Time) {
	for k, e := range c.entries {
		if k == c.current || e.fetching || !e.settled {
			continue
		}
		if now.Sub(e.updatedAt) > c.cacheTime {
			delete(c.entries, k)
		}
	}
}
