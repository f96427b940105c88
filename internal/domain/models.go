package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a staff member who signs in to the CRM.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Client is a customer company.
type Client struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	CompanyName   string     `db:"company_name" json:"company_name"`
	CompanyType   string     `db:"company_type" json:"company_type"`
	GSTIN         string     `db:"gstin" json:"gstin"`
	ContactPerson string     `db:"contact_person" json:"contact_person"`
	Email         string     `db:"email" json:"email"`
	Phone         string     `db:"phone" json:"phone"`
	Address       string     `db:"address" json:"address"`
	City          string     `db:"city" json:"city"`
	State         string     `db:"state" json:"state"`
	Pincode       string     `db:"pincode" json:"pincode"`
	CreatedBy     *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Lead is a sales opportunity. Status is projected from its estimations on
// every read.
type Lead struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	LeadNo        string     `db:"lead_no" json:"lead_no"`
	LeadDate      time.Time  `db:"lead_date" json:"lead_date"`
	ClientID      uuid.UUID  `db:"client_id" json:"client_id"`
	ClientName    string     `db:"client_name" json:"client_name,omitempty"`
	ContactPerson string     `db:"contact_person" json:"contact_person"`
	Phone         string     `db:"phone" json:"phone"`
	Email         string     `db:"email" json:"email"`
	Source        string     `db:"source" json:"source"`
	Requirement   string     `db:"requirement" json:"requirement"`
	Remarks       string     `db:"remarks" json:"remarks"`
	CreatedBy     *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	Status        LeadStatus `db:"-" json:"status"`
}

// Estimation is a quotation issued to a client.
type Estimation struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	QuoteNo         string           `db:"quote_no" json:"quote_no"`
	QuoteDate       time.Time        `db:"quote_date" json:"quote_date"`
	ClientID        uuid.UUID        `db:"client_id" json:"client_id"`
	ClientName      string           `db:"client_name" json:"client_name,omitempty"`
	LeadID          *uuid.UUID       `db:"lead_id" json:"lead_id,omitempty"`
	ValidityDays    int              `db:"validity_days" json:"validity_days"`
	GSTNo           string           `db:"gst_no" json:"gst_no"`
	BillingAddress  string           `db:"billing_address" json:"billing_address"`
	ShippingAddress string           `db:"shipping_address" json:"shipping_address"`
	SubTotal        decimal.Decimal  `db:"sub_total" json:"sub_total"`
	Discount        decimal.Decimal  `db:"discount" json:"discount"`
	TaxAmount       decimal.Decimal  `db:"tax_amount" json:"tax_amount"`
	Total           decimal.Decimal  `db:"total" json:"total"`
	Status          EstimationStatus `db:"status" json:"status"`
	CreditDays      *int             `db:"credit_days" json:"credit_days,omitempty"`
	PONumber        string           `db:"po_number" json:"po_number"`
	PODate          *time.Time       `db:"po_date" json:"po_date,omitempty"`
	POReceivedDate  *time.Time       `db:"po_received_date" json:"po_received_date,omitempty"`
	POAttachmentKey string           `db:"po_attachment_key" json:"po_attachment_key,omitempty"`
	ApprovedAt      *time.Time       `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID       `db:"approved_by" json:"approved_by,omitempty"`
	RejectionReason string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
	LostReason      string           `db:"lost_reason" json:"lost_reason,omitempty"`
	FollowUpDate    *time.Time       `db:"follow_up_date" json:"follow_up_date,omitempty"`
	FollowUpRemarks string           `db:"follow_up_remarks" json:"follow_up_remarks,omitempty"`
	Terms           string           `db:"terms" json:"terms"`
	BankDetails     string           `db:"bank_details" json:"bank_details"`
	Remarks         string           `db:"remarks" json:"remarks"`
	PDFKey          string           `db:"pdf_key" json:"pdf_key,omitempty"`
	CreatedBy       *uuid.UUID       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
	Items           []EstimationItem `db:"-" json:"items"`
}

// ExpiryDate is the last day the quotation is valid.
func (e *Estimation) ExpiryDate() time.Time {
	return e.QuoteDate.AddDate(0, 0, e.ValidityDays)
}

// IsTerminal reports whether no further workflow action applies.
func (e *Estimation) IsTerminal() bool {
	return IsTerminalEstimationStatus(e.Status)
}

// EstimationItem is one priced line of a quotation.
type EstimationItem struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EstimationID uuid.UUID       `db:"estimation_id" json:"estimation_id"`
	Position     int             `db:"position" json:"position"`
	Description  string          `db:"description" json:"description"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	Rate         decimal.Decimal `db:"rate" json:"rate"`
	TaxRate      decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
}

// Invoice bills an approved estimation. At most one exists per estimation.
type Invoice struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	InvoiceNo    string          `db:"invoice_no" json:"invoice_no"`
	EstimationID uuid.UUID       `db:"estimation_id" json:"estimation_id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	ClientName   string          `db:"client_name" json:"client_name,omitempty"`
	QuoteNo      string          `db:"quote_no" json:"quote_no,omitempty"`
	InvoiceDate  time.Time       `db:"invoice_date" json:"invoice_date"`
	CreditDays   int             `db:"credit_days" json:"credit_days"`
	DueDate      time.Time       `db:"due_date" json:"due_date"`
	Total        decimal.Decimal `db:"total" json:"total"`
	PaidAmount   decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	BalanceDue   decimal.Decimal `db:"balance_due" json:"balance_due"`
	Status       InvoiceStatus   `db:"status" json:"status"`
	IsApproved   bool            `db:"is_approved" json:"is_approved"`
	ApprovedAt   *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
	Remarks      string          `db:"remarks" json:"remarks"`
	PDFKey       string          `db:"pdf_key" json:"pdf_key,omitempty"`
	CreatedBy    *uuid.UUID      `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// IsOverdue reports whether the due date has passed with money outstanding.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.BalanceDue.IsPositive() && now.After(i.DueDate.AddDate(0, 0, 1))
}

// PaymentLog records money received against an invoice.
type PaymentLog struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	ReferenceNo string          `db:"reference_no" json:"reference_no"`
	PaymentDate time.Time       `db:"payment_date" json:"payment_date"`
	Status      PaymentStatus   `db:"status" json:"status"`
	Remarks     string          `db:"remarks" json:"remarks"`
	ConfirmedAt *time.Time      `db:"confirmed_at" json:"confirmed_at,omitempty"`
	RecordedBy  *uuid.UUID      `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NumberingSettings configures one document number sequence.
type NumberingSettings struct {
	Kind       NumberKind      `db:"kind" json:"kind"`
	Prefix     string          `db:"prefix" json:"prefix"`
	Frequency  NumberFrequency `db:"frequency" json:"frequency"`
	Padding    int             `db:"padding" json:"padding"`
	NextNumber int64           `db:"next_number" json:"next_number"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// TaxSettings holds the singleton GST configuration.
type TaxSettings struct {
	GSTPercentage decimal.Decimal `db:"gst_percentage" json:"gst_percentage"`
	DefaultTerms  string          `db:"default_terms" json:"default_terms"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// CompanyProfile is the issuing business printed on documents.
type CompanyProfile struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	GSTIN       string `json:"gstin"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	BankDetails string `json:"bank_details"`
	UPIID       string `json:"upi_id"`
}

// StateCode is the GST state code of the issuing business.
func (p CompanyProfile) StateCode() string {
	return GSTINStateCode(p.GSTIN)
}

// Settings is the configuration snapshot an operation works with. It is
// loaded once and passed explicitly.
type Settings struct {
	Tax       TaxSettings         `json:"tax"`
	Numbering []NumberingSettings `json:"numbering"`
	Company   CompanyProfile      `json:"company"`
}

// ListFilter holds common list query options.
type ListFilter struct {
	Query    string
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}

// LeadFilter narrows lead listings.
type LeadFilter struct {
	ListFilter
	Status LeadStatus
}

// EstimationFilter narrows estimation listings.
type EstimationFilter struct {
	ListFilter
	Status      EstimationStatus
	LeadID      *uuid.UUID
	FollowUpDue *time.Time
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	ListFilter
	Status    InvoiceStatus
	OverdueAt *time.Time
}

// ReportFilters narrows the lead report. From/To bound the lead date.
type ReportFilters struct {
	From       *time.Time
	To         *time.Time
	ClientID   *uuid.UUID
	LeadStatus LeadStatus
	Offset     int
	Limit      int
}

// ReportRow is one denormalized lead line of the CRM report.
type ReportRow struct {
	LeadID           uuid.UUID           `db:"lead_id" json:"lead_id"`
	LeadNo           string              `db:"lead_no" json:"lead_no"`
	LeadDate         time.Time           `db:"lead_date" json:"lead_date"`
	ClientName       string              `db:"client_name" json:"client_name"`
	Requirement      string              `db:"requirement" json:"requirement"`
	LeadStatus       LeadStatus          `db:"-" json:"lead_status"`
	QuoteNo          *string             `db:"quote_no" json:"quote_no"`
	EstimationStatus *string             `db:"estimation_status" json:"estimation_status"`
	LostReason       *string             `db:"lost_reason" json:"lost_reason"`
	EstimationTotal  decimal.NullDecimal `db:"estimation_total" json:"estimation_total"`
	PONumber         *string             `db:"po_number" json:"po_number"`
	PODate           *time.Time          `db:"po_date" json:"po_date"`
	InvoiceNo        *string             `db:"invoice_no" json:"invoice_no"`
	InvoiceTotal     decimal.NullDecimal `db:"invoice_total" json:"invoice_total"`
	PaidAmount       decimal.NullDecimal `db:"paid_amount" json:"paid_amount"`
	BalanceDue       decimal.NullDecimal `db:"balance_due" json:"balance_due"`
	InvoiceStatus    *string             `db:"invoice_status" json:"invoice_status"`
}

// StatusCount is a status with the number of rows in it.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// ClientTotal is a client ranked by invoiced value.
type ClientTotal struct {
	ClientID    uuid.UUID       `db:"client_id" json:"client_id"`
	CompanyName string          `db:"company_name" json:"company_name"`
	Invoiced    decimal.Decimal `db:"invoiced" json:"invoiced"`
	Paid        decimal.Decimal `db:"paid" json:"paid"`
}

// DashboardStats summarizes activity over a period.
type DashboardStats struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	LeadCount        int             `json:"lead_count"`
	WonLeadCount     int             `json:"won_lead_count"`
	EstimationCount  int             `json:"estimation_count"`
	InvoiceCount     int             `json:"invoice_count"`
	ConversionRate   decimal.Decimal `json:"conversion_rate"`
	EstimationStatus []StatusCount   `json:"estimation_status"`
	InvoiceStatus    []StatusCount   `json:"invoice_status"`
	TopClients       []ClientTotal   `json:"top_clients"`
}
