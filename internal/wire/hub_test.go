package wire

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calldesk/console/internal/event"
)

// fakeSender records the hints it receives and each send's deadline.
type fakeSender struct {
	mu        sync.Mutex
	msgs      []ServerMessage
	deadlines []bool
}

func (f *fakeSender) send(ctx context.Context, msg ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.msgs = append(f.msgs, msg)
	f.deadlines = append(f.deadlines, hasDeadline)
}

func paymentEvent(leadID string) event.Event {
	return event.Event{Type: "payment_recorded", LeadID: leadID, AgentID: "agent-1"}
}

func TestHub_BroadcastsHints(t *testing.T) {
	h := NewHub()
	a := &fakeSender{}
	b := &fakeSender{}
	h.register(a)
	h.register(b)

	require.NoError(t, h.HandleEvent(context.Background(), paymentEvent("lead-9")))

	for _, s := range []*fakeSender{a, b} {
		require.Len(t, s.msgs, 1)
		assert.Equal(t, "hint", s.msgs[0].Type)
		hint, ok := s.msgs[0].Data.(HintData)
		require.True(t, ok)
		assert.Equal(t, "lead-9", hint.LeadID)
	}

	h.unregister(b)
	require.NoError(t, h.HandleEvent(context.Background(), paymentEvent("lead-9")))
	assert.Len(t, a.msgs, 2)
	assert.Len(t, b.msgs, 1)
}

// The bus dispatches from one goroutine, so every hint send must carry
// its own deadline instead of the bus's long-lived context.
func TestHub_SendsAreDeadlineBounded(t *testing.T) {
	h := NewHub()
	s := &fakeSender{}
	h.register(s)

	require.NoError(t, h.HandleEvent(context.Background(), paymentEvent("lead-1")))

	require.Len(t, s.deadlines, 1)
	assert.True(t, s.deadlines[0], "hint send context must have a deadline")
}
