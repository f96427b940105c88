package domain

// UserRole defines what a staff member may do by default.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleSales   UserRole = "sales"
)

// ValidRoles lists the assignable roles.
var ValidRoles = map[UserRole]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleSales:   true,
}

// EstimationStatus is the workflow state of a quotation.
type EstimationStatus string

const (
	EstimationPending  EstimationStatus = "Pending"
	EstimationApproved EstimationStatus = "Approved"
	EstimationRejected EstimationStatus = "Rejected"
	EstimationLost     EstimationStatus = "Lost"
	EstimationInvoiced EstimationStatus = "Invoiced"
)

// ValidEstimationStatuses is used to validate list filters.
var ValidEstimationStatuses = map[EstimationStatus]bool{
	EstimationPending:  true,
	EstimationApproved: true,
	EstimationRejected: true,
	EstimationLost:     true,
	EstimationInvoiced: true,
}

// LeadStatus is the projected status of a lead. It is never persisted.
type LeadStatus string

const (
	LeadPending LeadStatus = "Pending"
	LeadQuoted  LeadStatus = "Quoted"
	LeadWon     LeadStatus = "Won"
	LeadLost    LeadStatus = "Lost"
)

// ValidLeadStatuses is used to validate list filters.
var ValidLeadStatuses = map[LeadStatus]bool{
	LeadPending: true,
	LeadQuoted:  true,
	LeadWon:     true,
	LeadLost:    true,
}

// InvoiceStatus is derived from the confirmed payments against an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid      InvoiceStatus = "Unpaid"
	InvoicePartialPaid InvoiceStatus = "Partial Paid"
	InvoicePaid        InvoiceStatus = "Paid"
)

// ValidInvoiceStatuses is used to validate list filters.
var ValidInvoiceStatuses = map[InvoiceStatus]bool{
	InvoiceUnpaid:      true,
	InvoicePartialPaid: true,
	InvoicePaid:        true,
}

// PaymentStatus is the state of a payment log. A confirmed log carries the
// invoice status observed at confirmation time.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "Pending"
	PaymentUnpaid      PaymentStatus = "Unpaid"
	PaymentPartialPaid PaymentStatus = "Partial Paid"
	PaymentPaid        PaymentStatus = "Paid"
)

// NumberKind identifies an independent document number sequence.
type NumberKind string

const (
	NumberKindLead       NumberKind = "lead"
	NumberKindEstimation NumberKind = "estimation"
	NumberKindInvoice    NumberKind = "invoice"
)

// NumberKinds lists the configurable sequences in display order.
var NumberKinds = []NumberKind{NumberKindLead, NumberKindEstimation, NumberKindInvoice}

// ValidNumberKinds lists the configurable sequences.
var ValidNumberKinds = map[NumberKind]bool{
	NumberKindLead:       true,
	NumberKindEstimation: true,
	NumberKindInvoice:    true,
}

// NumberFrequency controls which date parts appear in a document number.
type NumberFrequency string

const (
	FrequencyNone    NumberFrequency = "none"
	FrequencyDaily   NumberFrequency = "daily"
	FrequencyMonthly NumberFrequency = "monthly"
	FrequencyYearly  NumberFrequency = "yearly"
)

// ValidFrequencies lists the accepted numbering frequencies.
var ValidFrequencies = map[NumberFrequency]bool{
	FrequencyNone:    true,
	FrequencyDaily:   true,
	FrequencyMonthly: true,
	FrequencyYearly:  true,
}
