package eventbus

import (
	"context"
	"log"

	"github.com/calldesk/console/internal/event"
)

// LogConsumer logs all console events for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.Event) error {
	log.Printf("event: %s agent=%s lead=%s summary=%q", evt.Type, evt.AgentID, evt.LeadID, evt.Summary)
	return nil
}
