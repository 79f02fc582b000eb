package wire

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	json "github.com/goccy/go-json"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/listctl"
	"github.com/calldesk/console/internal/session"
)

// Handler manages WebSocket connections for the live list views. Each
// connection belongs to one agent session and owns one list controller
// per open view.
type Handler struct {
	sessions *session.Manager
	backend  *backend.Client
	hub      *Hub
	window   func() []listctl.Option
}

// NewHandler creates a WebSocket handler. Extra controller options (used
// by tests to shrink the debounce window) apply to every view opened.
func NewHandler(sessions *session.Manager, b *backend.Client, hub *Hub, opts ...listctl.Option) *Handler {
	return &Handler{
		sessions: sessions,
		backend:  b,
		hub:      hub,
		window:   func() []listctl.Option { return opts },
	}
}

// conn is one live browser connection.
type conn struct {
	ws   *websocket.Conn
	sess *session.Session

	writeMu sync.Mutex
	mu      sync.Mutex
	views   map[string]*listctl.Controller[json.RawMessage]
}

// ServeHTTP upgrades to WebSocket and runs the intent loop. Browsers
// cannot set headers on the upgrade request, so the session token rides
// in the query string.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(r.URL.Query().Get("token"))
	if sess == nil {
		http.Error(w, "session expired, log in again", http.StatusUnauthorized)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("wire: websocket accept: %v", err)
		return
	}
	defer ws.CloseNow()

	c := &conn{
		ws:    ws,
		sess:  sess,
		views: make(map[string]*listctl.Controller[json.RawMessage]),
	}
	h.hub.register(c)
	defer func() {
		h.hub.unregister(c)
		c.closeViews()
	}()

	ctx := r.Context()
	c.send(ctx, ServerMessage{
		Type: "session",
		Data: SessionData{AgentID: sess.AgentID, AgentName: sess.AgentName},
	})

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("wire: connection closed: %v", websocket.CloseStatus(err))
			}
			return
		}
		h.handle(ctx, c, msg)
	}
}

func (h *Handler) handle(ctx context.Context, c *conn, msg ClientMessage) {
	switch msg.Type {
	case "open":
		h.handleOpen(ctx, c, msg)
	case "search":
		var data SearchData
		withView(ctx, c, msg, &data, func(ctl *listctl.Controller[json.RawMessage]) {
			ctl.SetSearch(data.Term)
		})
	case "filter":
		var data FilterData
		withView(ctx, c, msg, &data, func(ctl *listctl.Controller[json.RawMessage]) {
			ctl.SetStatusFilter(data.Status)
		})
	case "page":
		var data PageData
		withView(ctx, c, msg, &data, func(ctl *listctl.Controller[json.RawMessage]) {
			ctl.SetPage(data.Page, data.PageSize)
		})
	case "clear":
		var data ViewData
		withView(ctx, c, msg, &data, func(ctl *listctl.Controller[json.RawMessage]) {
			ctl.ClearFilters()
		})
	case "refresh":
		var data ViewData
		withView(ctx, c, msg, &data, func(ctl *listctl.Controller[json.RawMessage]) {
			ctl.Refresh()
		})
	case "close":
		var data ViewData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			c.closeView(data.View)
		}
	case "ping":
		c.send(ctx, ServerMessage{Type: "pong", RequestID: msg.ID})
	default:
		c.sendError(ctx, msg.ID, "unknown_type", "unknown message type: "+msg.Type)
	}
}

func (h *Handler) handleOpen(ctx context.Context, c *conn, msg ClientMessage) {
	var data OpenData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid open data")
		return
	}

	fetch, err := viewFetcher(h.backend, data.View, c.sess.AgentID)
	if err != nil {
		c.sendError(ctx, msg.ID, "unknown_view", err.Error())
		return
	}

	opts := h.window()
	if data.PageSize > 0 {
		opts = append(opts, listctl.WithPageSize(data.PageSize))
	}
	view := data.View
	ctl := listctl.New(ctx, fetch, func(snap listctl.Snapshot[json.RawMessage]) {
		c.pushView(ctx, view, snap)
	}, opts...)

	c.mu.Lock()
	if old, ok := c.views[view]; ok {
		old.Close()
	}
	c.views[view] = ctl
	c.mu.Unlock()

	ctl.Refresh()
}

// viewIntent is the common shape of per-view intent payloads.
type viewIntent interface{ viewName() string }

func (d *SearchData) viewName() string { return d.View }
func (d *FilterData) viewName() string { return d.View }
func (d *PageData) viewName() string   { return d.View }
func (d *ViewData) viewName() string   { return d.View }

// withView decodes the payload, looks up the view's controller, and runs
// the intent against it.
func withView[D viewIntent](ctx context.Context, c *conn, msg ClientMessage, data D, apply func(*listctl.Controller[json.RawMessage])) {
	if err := json.Unmarshal(msg.Data, data); err != nil {
		c.sendError(ctx, msg.ID, "invalid_data", "invalid "+msg.Type+" data")
		return
	}
	c.mu.Lock()
	ctl, ok := c.views[data.viewName()]
	c.mu.Unlock()
	if !ok {
		c.sendError(ctx, msg.ID, "view_not_open", "view not open: "+data.viewName())
		return
	}
	apply(ctl)
}

func (c *conn) pushView(ctx context.Context, view string, snap listctl.Snapshot[json.RawMessage]) {
	state := ViewState{
		View:  view,
		State: snap.State.String(),
		Query: snap.Query,
		Rows:  snap.Rows,
		Total: snap.Total,
		Seq:   snap.Seq,
	}
	if snap.Err != nil {
		state.Error = snap.Err.Error()
	}
	c.send(ctx, ServerMessage{Type: "view", Data: state})
}

func (c *conn) closeView(view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctl, ok := c.views[view]; ok {
		ctl.Close()
		delete(c.views, view)
	}
}

func (c *conn) closeViews() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ctl := range c.views {
		ctl.Close()
	}
	c.views = map[string]*listctl.Controller[json.RawMessage]{}
}

// send serialises writes; controller callbacks fire from fetch and timer
// goroutines.
func (c *conn) send(ctx context.Context, msg ServerMessage) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := wsjson.Write(ctx, c.ws, msg); err != nil {
		log.Printf("wire: write error: %v", err)
	}
}

func (c *conn) sendError(ctx context.Context, requestID, code, message string) {
	c.send(ctx, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}
