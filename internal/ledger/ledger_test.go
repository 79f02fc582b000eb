package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calldesk/console/internal/types"
)

func pay(cat types.PaymentCategory, rupees int64) types.Payment {
	return types.Payment{Category: cat, Amount: types.Rupees(rupees)}
}

func TestComputeSummary(t *testing.T) {
	totals := ChargeTotals{Service: types.Rupees(5000), Medical: types.Rupees(2000)}
	payments := []types.Payment{
		pay(types.CategoryService, 2000),
		pay(types.CategoryMedical, 2000),
	}

	s := ComputeSummary(totals, payments)

	assert.Equal(t, types.Rupees(5000), s.Service.Total)
	assert.Equal(t, types.Rupees(2000), s.Service.Paid)
	assert.Equal(t, types.Rupees(3000), s.Service.Pending)
	assert.Equal(t, types.Rupees(2000), s.Medical.Total)
	assert.Equal(t, types.Rupees(2000), s.Medical.Paid)
	assert.Equal(t, types.Paise(0), s.Medical.Pending)
	assert.False(t, s.FullyPaid)
	assert.Equal(t, types.Rupees(3000), s.TotalPending())
}

func TestComputeSummary_Idempotent(t *testing.T) {
	totals := ChargeTotals{Service: types.Rupees(1000), Medical: types.Rupees(500)}
	payments := []types.Payment{
		pay(types.CategoryService, 250),
		pay(types.CategoryService, 250),
		pay(types.CategoryMedical, 500),
	}

	first := ComputeSummary(totals, payments)
	second := ComputeSummary(totals, payments)
	assert.Equal(t, first, second)
}

func TestComputeSummary_PendingNeverNegative(t *testing.T) {
	// Overpaid category: totals were lowered upstream after payments landed.
	totals := ChargeTotals{Service: types.Rupees(100), Medical: 0}
	payments := []types.Payment{
		pay(types.CategoryService, 500),
		pay(types.CategoryMedical, 200),
	}

	s := ComputeSummary(totals, payments)
	assert.GreaterOrEqual(t, int64(s.Service.Pending), int64(0))
	assert.GreaterOrEqual(t, int64(s.Medical.Pending), int64(0))
	assert.Equal(t, types.Paise(0), s.Service.Pending)
	assert.Equal(t, types.Rupees(500), s.Service.Paid)
}

func TestComputeSummary_FullyPaid(t *testing.T) {
	totals := ChargeTotals{Service: types.Rupees(1000), Medical: types.Rupees(2000)}

	s := ComputeSummary(totals, []types.Payment{
		pay(types.CategoryService, 1000),
		pay(types.CategoryMedical, 2000),
	})
	assert.True(t, s.FullyPaid)

	// One paisa short on either side flips it.
	s = ComputeSummary(totals, []types.Payment{
		{Category: types.CategoryService, Amount: types.Rupees(1000) - 1},
		pay(types.CategoryMedical, 2000),
	})
	assert.False(t, s.FullyPaid)
}

func TestComputeSummary_NoPayments(t *testing.T) {
	totals := ChargeTotals{Service: types.Rupees(5000), Medical: types.Rupees(2000)}
	s := ComputeSummary(totals, nil)

	assert.Equal(t, types.Paise(0), s.Service.Paid)
	assert.Equal(t, types.Rupees(5000), s.Service.Pending)
	assert.False(t, s.FullyPaid)
}

func TestComputeSummary_ZeroTotals(t *testing.T) {
	// A form without office confirmation has zero totals and nothing due.
	s := ComputeSummary(ChargeTotals{}, nil)
	assert.True(t, s.FullyPaid)
}

func TestValidatePayment_NoCategory(t *testing.T) {
	s := ComputeSummary(ChargeTotals{Service: types.Rupees(100)}, nil)
	err := ValidatePayment("", types.Rupees(10), s)
	assert.ErrorIs(t, err, ErrNoCategorySelected)
}

func TestValidatePayment_NonPositiveAmount(t *testing.T) {
	s := ComputeSummary(ChargeTotals{Service: types.Rupees(100)}, nil)

	err := ValidatePayment(types.CategoryService, 0, s)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	err = ValidatePayment(types.CategoryService, -types.Rupees(5), s)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestValidatePayment_CategoryFullyPaid(t *testing.T) {
	totals := ChargeTotals{Service: types.Rupees(500), Medical: types.Rupees(200)}
	s := ComputeSummary(totals, []types.Payment{pay(types.CategoryMedical, 200)})

	err := ValidatePayment(types.CategoryMedical, types.Rupees(100), s)
	assert.ErrorIs(t, err, ErrCategoryFullyPaid)

	// Service still has balance.
	assert.NoError(t, ValidatePayment(types.CategoryService, types.Rupees(100), s))
}

func TestValidatePayment_AmountExceedsBalance(t *testing.T) {
	totals := ChargeTotals{Service: types.Rupees(500)}
	s := ComputeSummary(totals, []types.Payment{pay(types.CategoryService, 200)})

	err := ValidatePayment(types.CategoryService, types.Rupees(300)+1, s)
	var balErr *BalanceExceededError
	require.True(t, errors.As(err, &balErr))
	assert.Equal(t, types.CategoryService, balErr.Category)
	assert.Equal(t, types.Rupees(300), balErr.Pending)

	// Paying exactly the pending balance is allowed.
	assert.NoError(t, ValidatePayment(types.CategoryService, types.Rupees(300), s))
}

func TestValidatePayment_UnknownCategory(t *testing.T) {
	s := ComputeSummary(ChargeTotals{Service: types.Rupees(100)}, nil)
	err := ValidatePayment("Visa", types.Rupees(10), s)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCategorySelected)
}
