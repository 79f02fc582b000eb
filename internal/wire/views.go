package wire

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/listctl"
)

// rowPage converts a typed page into raw JSON rows for the wire.
func rowPage[T any](page listctl.Page[T], err error) (listctl.Page[json.RawMessage], error) {
	if err != nil {
		return listctl.Page[json.RawMessage]{}, err
	}
	rows := make([]json.RawMessage, 0, len(page.Rows))
	for _, r := range page.Rows {
		b, err := json.Marshal(r)
		if err != nil {
			return listctl.Page[json.RawMessage]{}, err
		}
		rows = append(rows, b)
	}
	return listctl.Page[json.RawMessage]{Rows: rows, Total: page.Total}, nil
}

// viewFetcher binds a view name to its upstream list endpoint for one
// agent.
func viewFetcher(b *backend.Client, view, agentID string) (listctl.Fetcher[json.RawMessage], error) {
	switch view {
	case ViewLeads:
		return func(ctx context.Context, q listctl.Query) (listctl.Page[json.RawMessage], error) {
			return rowPage(b.AssignedLeads(ctx, agentID, q))
		}, nil
	case ViewPassportHolders:
		return func(ctx context.Context, q listctl.Query) (listctl.Page[json.RawMessage], error) {
			return rowPage(b.PassportHolderLeads(ctx, agentID, q))
		}, nil
	case ViewFilledForms:
		return func(ctx context.Context, q listctl.Query) (listctl.Page[json.RawMessage], error) {
			return rowPage(b.FilledForms(ctx, agentID, q))
		}, nil
	case ViewDispatchQueue:
		return func(ctx context.Context, q listctl.Query) (listctl.Page[json.RawMessage], error) {
			return rowPage(b.FormsAwaitingDispatch(ctx, agentID, q))
		}, nil
	}
	return nil, fmt.Errorf("unknown view %q", view)
}
