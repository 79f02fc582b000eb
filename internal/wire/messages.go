// Package wire defines the WebSocket protocol for the live list views.
// The browser sends intents (open a view, type in the search box, change
// page); the gateway owns the query state and pushes row sets back.
package wire

import (
	json "github.com/goccy/go-json"

	"github.com/calldesk/console/internal/listctl"
)

// View names match the console's pages.
const (
	ViewLeads           = "leads"
	ViewFilledForms     = "filled-forms"
	ViewPassportHolders = "passport-holders"
	ViewDispatchQueue   = "dispatch-queue"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string          `json:"type"` // "open", "search", "filter", "page", "clear", "refresh", "close", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// OpenData opens (or reopens) a view.
type OpenData struct {
	View     string `json:"view"`
	PageSize int    `json:"pageSize,omitempty"`
}

// SearchData carries one search keystroke for a view.
type SearchData struct {
	View string `json:"view"`
	Term string `json:"term"`
}

// FilterData sets or clears a view's status filter.
type FilterData struct {
	View   string `json:"view"`
	Status string `json:"status"`
}

// PageData moves a view's pagination cursor.
type PageData struct {
	View     string `json:"view"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize,omitempty"`
}

// ViewData names a view for clear/refresh/close intents.
type ViewData struct {
	View string `json:"view"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type      string `json:"type"`                 // "view", "hint", "error", "session", "pong"
	RequestID string `json:"request_id,omitempty"` // Echoes client ID where applicable
	Data      any    `json:"data,omitempty"`
}

// ViewState is the full renderable state of one view, pushed on every
// transition. Seq lets the browser drop out-of-order frames after a
// reconnect.
type ViewState struct {
	View  string            `json:"view"`
	State string            `json:"state"` // "idle", "loading", "loaded", "failed"
	Query listctl.Query     `json:"query"`
	Rows  []json.RawMessage `json:"rows"`
	Total int               `json:"total"`
	Error string            `json:"error,omitempty"`
	Seq   uint64            `json:"seq"`
}

// HintData tells open views that something changed behind them.
type HintData struct {
	EventType string `json:"eventType"`
	LeadID    string `json:"leadId,omitempty"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionData confirms whose session the connection is bound to.
type SessionData struct {
	AgentID   string `json:"agentId"`
	AgentName string `json:"agentName,omitempty"`
}
