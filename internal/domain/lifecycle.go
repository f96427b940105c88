package domain

import "github.com/shopspring/decimal"

// estimationTransitions lists the workflow moves allowed from each state.
// Rejected, Lost and Invoiced have no outgoing moves.
var estimationTransitions = map[EstimationStatus]map[EstimationStatus]bool{
	EstimationPending: {
		EstimationApproved: true,
		EstimationRejected: true,
		EstimationLost:     true,
	},
	EstimationApproved: {
		EstimationInvoiced: true,
		EstimationRejected: true,
		EstimationLost:     true,
	},
}

// CanTransition reports whether an estimation may move from one status to another.
func CanTransition(from, to EstimationStatus) bool {
	next, ok := estimationTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminalEstimationStatus reports whether status has no outgoing transitions.
func IsTerminalEstimationStatus(status EstimationStatus) bool {
	return len(estimationTransitions[status]) == 0
}

// ProjectLeadStatus derives a lead's status from its estimations' statuses,
// ordered most recent first. Any Approved or Invoiced estimation wins the lead
// regardless of the others; otherwise the latest estimation decides.
func ProjectLeadStatus(newestFirst []EstimationStatus) LeadStatus {
	for _, s := range newestFirst {
		if s == EstimationApproved || s == EstimationInvoiced {
			return LeadWon
		}
	}
	if len(newestFirst) == 0 {
		return LeadPending
	}
	switch newestFirst[0] {
	case EstimationLost:
		return LeadLost
	case EstimationPending:
		return LeadQuoted
	default:
		return LeadPending
	}
}

// IsCountedPayment reports whether a payment log contributes to the paid amount.
func IsCountedPayment(status PaymentStatus) bool {
	return status == PaymentPaid || status == PaymentPartialPaid
}

// Reconciliation is the derived payment state of an invoice.
type Reconciliation struct {
	Paid    decimal.Decimal
	Balance decimal.Decimal
	Status  InvoiceStatus
}

// Reconcile derives paid amount, balance and status from an invoice total and
// the amounts of its confirmed payments. The balance never goes below zero.
func Reconcile(total decimal.Decimal, confirmed []decimal.Decimal) Reconciliation {
	paid := decimal.Zero
	for _, amt := range confirmed {
		paid = paid.Add(amt)
	}
	balance := total.Sub(paid)

	var status InvoiceStatus
	switch {
	case !balance.IsPositive():
		status = InvoicePaid
	case paid.IsPositive():
		status = InvoicePartialPaid
	default:
		status = InvoiceUnpaid
	}

	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return Reconciliation{Paid: paid, Balance: balance, Status: status}
}

// PaymentStatusFor maps an invoice status to the status stamped on a payment
// log at confirmation.
func PaymentStatusFor(status InvoiceStatus) PaymentStatus {
	switch status {
	case InvoicePaid:
		return PaymentPaid
	case InvoicePartialPaid:
		return PaymentPartialPaid
	default:
		return PaymentUnpaid
	}
}
