package listctl

import (
	"context"
	"sync"
	"time"
)

// Snapshot is the controller's externally visible state at one point in
// time. Seq identifies the intent that produced it; snapshots always
// arrive in intent order.
type Snapshot[T any] struct {
	State State
	Query Query
	Rows  []T
	Total int
	Err   error
	Seq   uint64
}

// Controller owns the query state of one list view. Every intent (search,
// filter, page change) bumps a sequence number and kicks off a fetch; a
// fetch that resolves after a newer intent has been issued is discarded,
// never rendered. Search intents are debounced, everything else fetches
// immediately. Safe for concurrent use, though each view has a single
// logical writer.
type Controller[T any] struct {
	ctx      context.Context
	fetch    Fetcher[T]
	debounce *Debouncer
	onChange func(Snapshot[T])

	mu    sync.Mutex
	seq   uint64
	query Query
	state State
	rows  []T
	total int
	err   error
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	window   time.Duration
	pageSize int
}

// WithDebounceWindow overrides the search debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return func(o *options) { o.window = d }
}

// WithPageSize overrides the initial page size.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// New creates a controller in the Idle state. onChange is invoked (on the
// goroutine that applied the change) for every state transition; it may
// be nil. ctx bounds every fetch the controller issues.
func New[T any](ctx context.Context, fetch Fetcher[T], onChange func(Snapshot[T]), opts ...Option) *Controller[T] {
	o := options{pageSize: DefaultQuery().PageSize}
	for _, opt := range opts {
		opt(&o)
	}
	q := DefaultQuery()
	q.PageSize = o.pageSize
	return &Controller[T]{
		ctx:      ctx,
		fetch:    fetch,
		debounce: NewDebouncer(o.window),
		onChange: onChange,
		query:    q,
		state:    StateIdle,
	}
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		State: c.state,
		Query: c.query,
		Rows:  c.rows,
		Total: c.total,
		Err:   c.err,
		Seq:   c.seq,
	}
}

// SetSearch updates the search term after the debounce window. Five
// keystrokes inside one window produce a single fetch. Applying a search
// always resets to the first page, including clearing a previous term.
func (c *Controller[T]) SetSearch(term string) {
	c.debounce.Trigger(func() {
		c.apply(func(q *Query) {
			q.Search = term
			q.Page = 0
		})
	})
}

// SetStatusFilter narrows the view to one lead status, or StatusAll to
// clear the filter. Resets to the first page, keeps the search term.
func (c *Controller[T]) SetStatusFilter(status string) {
	c.apply(func(q *Query) {
		q.Status = status
		q.Page = 0
	})
}

// SetPage moves the pagination cursor without touching search or filter.
// pageSize <= 0 keeps the current size.
func (c *Controller[T]) SetPage(page, pageSize int) {
	c.apply(func(q *Query) {
		if page < 0 {
			page = 0
		}
		q.Page = page
		if pageSize > 0 {
			q.PageSize = pageSize
		}
	})
}

// ClearFilters resets search, status filter, and page to defaults.
func (c *Controller[T]) ClearFilters() {
	c.debounce.Stop()
	c.apply(func(q *Query) {
		q.Search = ""
		q.Status = StatusAll
		q.Page = 0
	})
}

// Refresh re-runs the current query, superseding any in-flight fetch.
func (c *Controller[T]) Refresh() {
	c.apply(func(*Query) {})
}

// Close cancels any pending debounced search. In-flight fetches resolve
// against the construction context.
func (c *Controller[T]) Close() {
	c.debounce.Stop()
}

// apply mutates the query under the lock, bumps the intent sequence, and
// launches the fetch for the new intent.
func (c *Controller[T]) apply(mutate func(*Query)) {
	c.mu.Lock()
	mutate(&c.query)
	c.seq++
	seq := c.seq
	q := c.query
	c.state = StateLoading
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	go c.run(seq, q)
}

func (c *Controller[T]) run(seq uint64, q Query) {
	page, err := c.fetch(c.ctx, q)

	c.mu.Lock()
	if seq != c.seq {
		// A newer intent superseded this fetch; drop the result. The
		// request itself is not aborted, idempotent GETs make that safe.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.rows = nil
		c.total = 0
		c.err = err
		c.state = StateFailed
	} else {
		c.rows = page.Rows
		c.total = page.Total
		c.err = nil
		c.state = StateLoaded
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Controller[T]) notify(snap Snapshot[T]) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
