// Package listctl drives the lazy-loaded list views (Leads, FilledForm,
// PassportHolder, MarkConfirmation). A Controller owns one view's query
// state, re-fetches from the upstream on every intent, and guarantees the
// displayed page always matches the newest intent.
package listctl

import "context"

// StatusAll disables status filtering.
const StatusAll = "all"

// Query is the canonical server-side query for one list view. It is the
// only thing the view's pagination, search box, and filter dropdown feed.
type Query struct {
	Page     int    `json:"page"` // zero-based
	PageSize int    `json:"limit"`
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"` // "" or "all" means unfiltered
	SortKey  string `json:"sortKey,omitempty"`
	SortDesc bool   `json:"sortDesc,omitempty"`
}

// DefaultQuery returns the query a freshly opened view starts with.
func DefaultQuery() Query {
	return Query{Page: 0, PageSize: 10, Status: StatusAll}
}

// Filtered reports whether the query narrows results by status.
func (q Query) Filtered() bool {
	return q.Status != "" && q.Status != StatusAll
}

// Page is one fetched page of rows plus the server's total count. The
// total drives the pagination UI; the controller never second-guesses it.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

// Fetcher loads one page of rows for a query from the upstream.
type Fetcher[T any] func(ctx context.Context, q Query) (Page[T], error)

// State is the controller's fetch lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
