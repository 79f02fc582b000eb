// Package activity keeps a rolling in-memory history of console events so
// agents can see what happened on a lead without leaving the console.
// Entries live only in memory; the upstream CRM remains the system of
// record.
package activity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/calldesk/console/internal/event"
)

// QueryOptions controls filtering and pagination for feed queries.
type QueryOptions struct {
	Since  *time.Time // default: unbounded
	Types  []string   // filter to specific event types
	Limit  int        // max results (default: 50, max: 200)
	Cursor string     // RFC3339Nano cursor from a previous page
}

// Feed implements eventbus.Handler. It records every published event and
// evicts the oldest once the cap is reached.
type Feed struct {
	mu      sync.RWMutex
	entries []event.Event
	cap     int
}

// NewFeed creates a feed that retains up to cap events.
func NewFeed(cap int) *Feed {
	if cap < 1 {
		cap = 1000
	}
	return &Feed{cap: cap}
}

// HandleEvent appends the event to the feed.
func (f *Feed) HandleEvent(_ context.Context, evt event.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, evt)
	if len(f.entries) > f.cap {
		f.entries = f.entries[len(f.entries)-f.cap:]
	}
	return nil
}

// ByLead returns the lead's events newest first, with a cursor for the
// next page and the total match count before pagination.
func (f *Feed) ByLead(leadID string, opts QueryOptions) ([]event.Event, string, int) {
	return f.query(func(e event.Event) bool { return e.LeadID == leadID }, opts)
}

// ByAgent returns the agent's events newest first.
func (f *Feed) ByAgent(agentID string, opts QueryOptions) ([]event.Event, string, int) {
	return f.query(func(e event.Event) bool { return e.AgentID == agentID }, opts)
}

func (f *Feed) query(match func(event.Event) bool, opts QueryOptions) ([]event.Event, string, int) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var cursorTime time.Time
	if opts.Cursor != "" {
		if t, err := time.Parse(time.RFC3339Nano, opts.Cursor); err == nil {
			cursorTime = t
		}
	}

	var matched []event.Event
	for _, e := range f.entries {
		if !match(e) {
			continue
		}
		if opts.Since != nil && e.OccurredAt.Before(*opts.Since) {
			continue
		}
		if len(opts.Types) > 0 && !containsType(opts.Types, e.Type) {
			continue
		}
		if !cursorTime.IsZero() && !e.OccurredAt.Before(cursorTime) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.After(matched[j].OccurredAt)
	})

	total := len(matched)
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var nextCursor string
	if len(matched) > limit {
		matched = matched[:limit]
		nextCursor = matched[len(matched)-1].OccurredAt.Format(time.RFC3339Nano)
	}

	return matched, nextCursor, total
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
