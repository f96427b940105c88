package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"quotecrm/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProjectLeadStatus(t *testing.T) {
	tests := []struct {
		name     string
		history  []domain.EstimationStatus
		expected domain.LeadStatus
	}{
		{"no estimations", nil, domain.LeadPending},
		{"latest pending after lost", []domain.EstimationStatus{domain.EstimationPending, domain.EstimationLost}, domain.LeadQuoted},
		{"latest lost", []domain.EstimationStatus{domain.EstimationLost, domain.EstimationPending}, domain.LeadLost},
		{"latest rejected", []domain.EstimationStatus{domain.EstimationRejected}, domain.LeadPending},
		{"approved older than lost", []domain.EstimationStatus{domain.EstimationLost, domain.EstimationApproved}, domain.LeadWon},
		{"invoiced older than pending", []domain.EstimationStatus{domain.EstimationPending, domain.EstimationRejected, domain.EstimationInvoiced}, domain.LeadWon},
		{"single approved", []domain.EstimationStatus{domain.EstimationApproved}, domain.LeadWon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ProjectLeadStatus(tt.history))
		})
	}
}

func TestProjectLeadStatus_WonDominatesAnyHistory(t *testing.T) {
	others := []domain.EstimationStatus{
		domain.EstimationPending, domain.EstimationRejected, domain.EstimationLost,
	}
	for _, won := range []domain.EstimationStatus{domain.EstimationApproved, domain.EstimationInvoiced} {
		for pos := 0; pos <= len(others); pos++ {
			history := append([]domain.EstimationStatus{}, others[:pos]...)
			history = append(history, won)
			history = append(history, others[pos:]...)
			assert.Equal(t, domain.LeadWon, domain.ProjectLeadStatus(history), "history %v", history)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.EstimationStatus
		allowed  bool
	}{
		{domain.EstimationPending, domain.EstimationApproved, true},
		{domain.EstimationPending, domain.EstimationRejected, true},
		{domain.EstimationPending, domain.EstimationLost, true},
		{domain.EstimationPending, domain.EstimationInvoiced, false},
		{domain.EstimationApproved, domain.EstimationInvoiced, true},
		{domain.EstimationApproved, domain.EstimationLost, true},
		{domain.EstimationApproved, domain.EstimationApproved, false},
		{domain.EstimationRejected, domain.EstimationLost, false},
		{domain.EstimationLost, domain.EstimationLost, false},
		{domain.EstimationInvoiced, domain.EstimationLost, false},
		{domain.EstimationInvoiced, domain.EstimationRejected, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, domain.CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalEstimationStatus(t *testing.T) {
	assert.False(t, domain.IsTerminalEstimationStatus(domain.EstimationPending))
	assert.False(t, domain.IsTerminalEstimationStatus(domain.EstimationApproved))
	assert.True(t, domain.IsTerminalEstimationStatus(domain.EstimationRejected))
	assert.True(t, domain.IsTerminalEstimationStatus(domain.EstimationLost))
	assert.True(t, domain.IsTerminalEstimationStatus(domain.EstimationInvoiced))
}

func TestReconcile_TwoPaymentsSettleInvoice(t *testing.T) {
	r := domain.Reconcile(dec("1000.00"), []decimal.Decimal{dec("400.00")})
	assert.True(t, r.Balance.Equal(dec("600")))
	assert.Equal(t, domain.InvoicePartialPaid, r.Status)

	r = domain.Reconcile(dec("1000.00"), []decimal.Decimal{dec("400.00"), dec("600.00")})
	assert.True(t, r.Balance.Equal(decimal.Zero))
	assert.True(t, r.Paid.Equal(dec("1000")))
	assert.Equal(t, domain.InvoicePaid, r.Status)
}

func TestReconcile_NoPayments(t *testing.T) {
	r := domain.Reconcile(dec("250.50"), nil)
	assert.True(t, r.Balance.Equal(dec("250.50")))
	assert.True(t, r.Paid.IsZero())
	assert.Equal(t, domain.InvoiceUnpaid, r.Status)
}

func TestReconcile_OverpaymentClampsBalance(t *testing.T) {
	r := domain.Reconcile(dec("1000"), []decimal.Decimal{dec("700"), dec("700")})
	assert.True(t, r.Balance.Equal(decimal.Zero))
	assert.False(t, r.Balance.IsNegative())
	assert.True(t, r.Paid.Equal(dec("1400")))
	assert.Equal(t, domain.InvoicePaid, r.Status)
}

func TestReconcile_BalanceNeverNegative(t *testing.T) {
	total := dec("999.99")
	var paid []decimal.Decimal
	for _, amt := range []string{"100", "0.01", "500", "399.98", "50", "1"} {
		paid = append(paid, dec(amt))
		r := domain.Reconcile(total, paid)
		assert.False(t, r.Balance.IsNegative())
		expected := total.Sub(r.Paid)
		if expected.IsNegative() {
			expected = decimal.Zero
		}
		assert.True(t, r.Balance.Equal(expected), "balance %s expected %s", r.Balance, expected)
	}
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, domain.PaymentPaid, domain.PaymentStatusFor(domain.InvoicePaid))
	assert.Equal(t, domain.PaymentPartialPaid, domain.PaymentStatusFor(domain.InvoicePartialPaid))
	assert.Equal(t, domain.PaymentUnpaid, domain.PaymentStatusFor(domain.InvoiceUnpaid))
	assert.True(t, domain.IsCountedPayment(domain.PaymentPaid))
	assert.True(t, domain.IsCountedPayment(domain.PaymentPartialPaid))
	assert.False(t, domain.IsCountedPayment(domain.PaymentPending))
}
