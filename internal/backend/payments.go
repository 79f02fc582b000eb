package backend

import (
	"context"
	"fmt"

	"github.com/calldesk/console/internal/types"
)

// PaymentsForLead fetches the full payment history for a lead. The
// upstream returns a bare array, oldest first.
func (c *Client) PaymentsForLead(ctx context.Context, leadID string) ([]types.Payment, error) {
	var payments []types.Payment
	if err := c.get(ctx, "/payment/payment/"+leadID, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePayment records a payment upstream and returns the stored entry.
// The ledger validates the attempt before this is ever called; the
// upstream runs the same checks again and its verdict wins.
func (c *Client) CreatePayment(ctx context.Context, p types.NewPayment) (*types.Payment, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %s", p.Amount)
	}
	var created types.Payment
	if err := c.send(ctx, "POST", "/payment/payment", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
