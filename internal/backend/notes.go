package backend

import (
	"context"

	"github.com/calldesk/console/internal/types"
)

// AddNote stores a follow-up reminder against a lead.
func (c *Client) AddNote(ctx context.Context, note *types.Note) error {
	return c.send(ctx, "POST", "/notes/add", note, nil)
}

// NotesForLead fetches the notes an agent has left on a lead.
func (c *Client) NotesForLead(ctx context.Context, leadID, agentID string) ([]types.Note, error) {
	body := map[string]string{"leadId": leadID, "agentId": agentID}
	var notes []types.Note
	if err := c.send(ctx, "POST", "/notes/filter", body, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
