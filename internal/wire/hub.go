package wire

import (
	"context"
	"sync"
	"time"

	"github.com/calldesk/console/internal/event"
)

// hintWriteTimeout bounds each hint send. The bus dispatches from a
// single consumer goroutine, so one stalled connection must not hold up
// every other subscriber.
const hintWriteTimeout = 2 * time.Second

// sender is the write half of a live connection.
type sender interface {
	send(ctx context.Context, msg ServerMessage)
}

// Hub tracks live connections and fans console events out to them as
// refresh hints. It subscribes to the event bus, so a payment recorded
// through the REST surface nudges every open payment-book and list view.
type Hub struct {
	mu    sync.RWMutex
	conns map[sender]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[sender]struct{})}
}

func (h *Hub) register(c sender) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c sender) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// HandleEvent implements eventbus.Handler.
func (h *Hub) HandleEvent(ctx context.Context, evt event.Event) error {
	hint := ServerMessage{
		Type: "hint",
		Data: HintData{EventType: evt.Type, LeadID: evt.LeadID},
	}
	h.mu.RLock()
	conns := make([]sender, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		sendCtx, cancel := context.WithTimeout(ctx, hintWriteTimeout)
		c.send(sendCtx, hint)
		cancel()
	}
	return nil
}
