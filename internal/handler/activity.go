package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/calldesk/console/internal/activity"
	"github.com/calldesk/console/internal/event"
)

// ActivityHandler serves the rolling event history.
type ActivityHandler struct {
	feed *activity.Feed
}

func NewActivityHandler(feed *activity.Feed) *ActivityHandler {
	return &ActivityHandler{feed: feed}
}

type activityResponse struct {
	Events     []event.Event `json:"events"`
	NextCursor string        `json:"nextCursor,omitempty"`
	Total      int           `json:"total"`
}

// ByLead returns recent events on one lead, newest first.
func (h *ActivityHandler) ByLead(w http.ResponseWriter, r *http.Request) {
	events, cursor, total := h.feed.ByLead(chi.URLParam(r, "leadID"), feedQuery(r))
	writeJSON(w, http.StatusOK, activityResponse{Events: events, NextCursor: cursor, Total: total})
}

// Mine returns the calling agent's recent events, newest first.
func (h *ActivityHandler) Mine(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	events, cursor, total := h.feed.ByAgent(sess.AgentID, feedQuery(r))
	writeJSON(w, http.StatusOK, activityResponse{Events: events, NextCursor: cursor, Total: total})
}

func feedQuery(r *http.Request) activity.QueryOptions {
	opts := activity.QueryOptions{Cursor: r.URL.Query().Get("cursor")}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("types"); v != "" {
		opts.Types = strings.Split(v, ",")
	}
	return opts
}
