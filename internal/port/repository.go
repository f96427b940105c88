package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotecrm/internal/domain"
)

// TxManager runs fn inside a database transaction carried by ctx. Repository
// calls made with that ctx join the transaction; nested calls reuse it.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the contract for staff user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCapabilities(ctx context.Context, userID uuid.UUID) ([]domain.Capability, error)
	ReplaceCapabilities(ctx context.Context, userID uuid.UUID, caps []domain.Capability, grantedBy uuid.UUID) error
}

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Client, int, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferences(ctx context.Context, id uuid.UUID) (int, error)
}

// LeadRepository defines the contract for lead persistence. Leads carry no
// stored status; callers project it from estimation history.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Lead, int, error)
	ListAll(ctx context.Context, filter domain.ListFilter) ([]domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	// Lock takes a write lock on the lead row for the rest of the
	// surrounding transaction.
	Lock(ctx context.Context, id uuid.UUID) error
	IDsInRange(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)
}

// EstimationRepository defines the contract for estimation persistence.
type EstimationRepository interface {
	Create(ctx context.Context, est *domain.Estimation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimation, error)
	List(ctx context.Context, filter domain.EstimationFilter) ([]domain.Estimation, int, error)
	Update(ctx context.Context, est *domain.Estimation) error
	// Transition persists the workflow fields of est only if its stored
	// status still equals from. It returns ErrInvalidTransition otherwise.
	Transition(ctx context.Context, est *domain.Estimation, from domain.EstimationStatus) error
	SetFollowUp(ctx context.Context, id uuid.UUID, date *time.Time, remarks string) error
	SetPDFKey(ctx context.Context, id uuid.UUID, key string) error
	// StatusHistory returns each lead's estimation statuses, newest first.
	StatusHistory(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]domain.EstimationStatus, error)
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	// Create fails with ErrInvoiceAlreadyExists when the estimation already
	// has an invoice.
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByEstimation(ctx context.Context, estimationID uuid.UUID) (*domain.Invoice, error)
	// Lock takes a write lock on the invoice row for the rest of the
	// surrounding transaction.
	Lock(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error)
	ListIDs(ctx context.Context, offset, limit int) ([]uuid.UUID, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, r domain.Reconciliation) error
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	SetPDFKey(ctx context.Context, id uuid.UUID, key string) error
}

// PaymentRepository defines the contract for payment log persistence.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.PaymentLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentLog, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.PaymentLog, error)
	// ConfirmedAmounts returns the amounts of logs counted towards payment.
	ConfirmedAmounts(ctx context.Context, invoiceID uuid.UUID) ([]decimal.Decimal, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, at time.Time) error
}

// SettingsRepository defines the contract for numbering and tax settings.
type SettingsRepository interface {
	// NextNumber atomically reserves the next sequence value of kind and
	// returns it with the settings it was issued under. A missing settings
	// row is created from domain.DefaultNumberingSettings.
	NextNumber(ctx context.Context, kind domain.NumberKind) (domain.NumberingSettings, int64, error)
	ListNumbering(ctx context.Context) ([]domain.NumberingSettings, error)
	SaveNumbering(ctx context.Context, s *domain.NumberingSettings) error
	GetTax(ctx context.Context) (*domain.TaxSettings, error)
	SaveTax(ctx context.Context, s *domain.TaxSettings) error
}

// ReportRepository defines the contract for the lead report.
type ReportRepository interface {
	LeadReport(ctx context.Context, filters domain.ReportFilters) ([]domain.ReportRow, int, error)
}

// InvoiceTotals aggregates invoices issued within a period.
type InvoiceTotals struct {
	Count    int             `db:"count"`
	Invoiced decimal.Decimal `db:"invoiced"`
	Paid     decimal.Decimal `db:"paid"`
	Balance  decimal.Decimal `db:"balance"`
}

// StatsRepository defines the contract for dashboard aggregates over the
// half-open range [from, to).
type StatsRepository interface {
	InvoiceTotals(ctx context.Context, from, to time.Time) (*InvoiceTotals, error)
	EstimationStatusCounts(ctx context.Context, from, to time.Time) ([]domain.StatusCount, error)
	InvoiceStatusCounts(ctx context.Context, from, to time.Time) ([]domain.StatusCount, error)
	TopClients(ctx context.Context, from, to time.Time, limit int) ([]domain.ClientTotal, error)
}
