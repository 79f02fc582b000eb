// Package ledger reconciles a lead's charge totals against its payment
// history and gates new payment submissions. ComputeSummary is the single
// source of truth for paid/pending figures; everything that renders or
// validates balances goes through it.
package ledger

import (
	"errors"
	"fmt"

	"github.com/calldesk/console/internal/types"
)

// ChargeTotals carries the office-confirmed totals for both charge
// categories.
type ChargeTotals struct {
	Service types.Paise `json:"service"`
	Medical types.Paise `json:"medical"`
}

// CategorySummary is the reconciled state of one charge category.
type CategorySummary struct {
	Total   types.Paise `json:"total"`
	Paid    types.Paise `json:"paid"`
	Pending types.Paise `json:"pending"`
}

// Summary is the reconciled state of a lead's payment book.
type Summary struct {
	Service   CategorySummary `json:"service"`
	Medical   CategorySummary `json:"medical"`
	FullyPaid bool            `json:"fullyPaid"`
}

// TotalPending is the sum of both categories' outstanding balances.
func (s Summary) TotalPending() types.Paise {
	return s.Service.Pending + s.Medical.Pending
}

// Pending returns the outstanding balance for one category.
func (s Summary) Pending(cat types.PaymentCategory) types.Paise {
	if cat == types.CategoryMedical {
		return s.Medical.Pending
	}
	return s.Service.Pending
}

// ComputeSummary reconciles charge totals against a payment history.
// Pure: same inputs always produce the same Summary, and the inputs are
// never mutated. Pending is clamped at zero so an over-collected category
// (totals lowered upstream after payments landed) never reports negative.
func ComputeSummary(totals ChargeTotals, payments []types.Payment) Summary {
	var servicePaid, medicalPaid types.Paise
	for _, p := range payments {
		switch p.Category {
		case types.CategoryService:
			servicePaid += p.Amount
		case types.CategoryMedical:
			medicalPaid += p.Amount
		}
	}
	s := Summary{
		Service: categorySummary(totals.Service, servicePaid),
		Medical: categorySummary(totals.Medical, medicalPaid),
	}
	s.FullyPaid = s.Service.Pending == 0 && s.Medical.Pending == 0
	return s
}

func categorySummary(total, paid types.Paise) CategorySummary {
	pending := total - paid
	if pending < 0 {
		pending = 0
	}
	return CategorySummary{Total: total, Paid: paid, Pending: pending}
}

// Validation failures for payment attempts. These are caught before any
// request leaves the process; the upstream runs the same checks again.
var (
	ErrNoCategorySelected = errors.New("no payment category selected")
	ErrNonPositiveAmount  = errors.New("payment amount must be positive")
	ErrCategoryFullyPaid  = errors.New("category is already fully paid")
)

// BalanceExceededError reports an attempt to pay more than the category's
// outstanding balance.
type BalanceExceededError struct {
	Category types.PaymentCategory
	Amount   types.Paise
	Pending  types.Paise
}

func (e *BalanceExceededError) Error() string {
	return fmt.Sprintf("amount %s exceeds remaining %s balance of %s",
		e.Amount, e.Category, e.Pending)
}

// ValidatePayment gates a payment attempt against the current summary.
// Checks run in a fixed order: missing category, non-positive amount,
// fully-paid category, amount over balance.
func ValidatePayment(cat types.PaymentCategory, amount types.Paise, s Summary) error {
	if cat == "" {
		return ErrNoCategorySelected
	}
	if cat != types.CategoryService && cat != types.CategoryMedical {
		return fmt.Errorf("unknown payment category %q", cat)
	}
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	pending := s.Pending(cat)
	if pending == 0 {
		return ErrCategoryFullyPaid
	}
	if amount > pending {
		return &BalanceExceededError{Category: cat, Amount: amount, Pending: pending}
	}
	return nil
}
