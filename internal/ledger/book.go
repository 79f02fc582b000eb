package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/calldesk/console/internal/types"
)

// Backend is the slice of the upstream client the payment book needs.
type Backend interface {
	FormByLead(ctx context.Context, leadID string) (*types.FilledForm, error)
	PaymentsForLead(ctx context.Context, leadID string) ([]types.Payment, error)
	CreatePayment(ctx context.Context, p types.NewPayment) (*types.Payment, error)
}

// Book is the payment book for one lead. It fetches the form's charge
// totals and the payment history, keeps the reconciled summary, and gates
// submissions. A failed refresh leaves the previously loaded state in
// place; a successful submission always re-fetches both the history and
// the charge totals before recomputing, since the office can change
// totals independently of payments.
type Book struct {
	backend Backend
	leadID  string
	agentID string

	mu       sync.Mutex
	loaded   bool
	form     *types.FilledForm
	payments []types.Payment
	summary  Summary
}

// NewBook creates a payment book for the given lead, recording payments
// on behalf of agentID.
func NewBook(backend Backend, leadID, agentID string) *Book {
	return &Book{backend: backend, leadID: leadID, agentID: agentID}
}

// Refresh re-fetches the form and payment history and recomputes the
// summary. On error the prior summary stays untouched.
func (b *Book) Refresh(ctx context.Context) error {
	form, err := b.backend.FormByLead(ctx, b.leadID)
	if err != nil {
		return fmt.Errorf("loading form for lead %s: %w", b.leadID, err)
	}
	payments, err := b.backend.PaymentsForLead(ctx, b.leadID)
	if err != nil {
		return fmt.Errorf("loading payments for lead %s: %w", b.leadID, err)
	}

	service, medical := form.ChargeTotals()
	summary := ComputeSummary(ChargeTotals{Service: service, Medical: medical}, payments)

	b.mu.Lock()
	b.form = form
	b.payments = payments
	b.summary = summary
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Summary returns the last reconciled summary. The second return is false
// until the first successful Refresh.
func (b *Book) Summary() (Summary, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary, b.loaded
}

// Payments returns a copy of the last loaded payment history.
func (b *Book) Payments() []types.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.Payment, len(b.payments))
	copy(out, b.payments)
	return out
}

// Form returns the last loaded form, or nil before the first Refresh.
func (b *Book) Form() *types.FilledForm {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.form
}

// SubmitPayment validates the attempt against the current summary, records
// it upstream, and refreshes the book. Validation failures never reach the
// network. A failed create leaves the summary exactly as it was: there is
// no optimistic update and no automatic retry, the caller asks the user to
// try again.
func (b *Book) SubmitPayment(ctx context.Context, cat types.PaymentCategory, amount types.Paise, mode types.PaymentMode) (*types.Payment, error) {
	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return nil, fmt.Errorf("payment book for lead %s not loaded", b.leadID)
	}
	summary := b.summary
	b.mu.Unlock()

	if err := ValidatePayment(cat, amount, summary); err != nil {
		return nil, err
	}
	if mode != types.ModeCash && mode != types.ModeUPI && mode != types.ModeBank {
		return nil, fmt.Errorf("unknown payment mode %q", mode)
	}

	created, err := b.backend.CreatePayment(ctx, types.NewPayment{
		LeadID:   b.leadID,
		Category: cat,
		Amount:   amount,
		Mode:     mode,
		AddedBy:  b.agentID,
	})
	if err != nil {
		return nil, err
	}

	// The write landed. Totals may have moved upstream in the meantime,
	// so a full re-fetch replaces the summary rather than patching it.
	if err := b.Refresh(ctx); err != nil {
		return created, fmt.Errorf("payment recorded but refresh failed: %w", err)
	}
	return created, nil
}
