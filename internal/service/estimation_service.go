package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
	"quotecrm/internal/validator/estimation"
)

// DefaultValidityDays applies when a quotation is created without one.
const DefaultValidityDays = 30

// EstimationItemInput is one line of an estimation request.
type EstimationItemInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	Rate        decimal.Decimal `json:"rate" swaggertype:"string"`
	TaxRate     decimal.Decimal `json:"tax_rate" swaggertype:"string"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
}

// EstimationInput is the DTO for creating or editing an estimation. Totals
// are taken as entered.
type EstimationInput struct {
	QuoteDate       string                `json:"quote_date" example:"2025-06-15"`
	ClientID        uuid.UUID             `json:"client_id" binding:"required"`
	LeadID          *uuid.UUID            `json:"lead_id"`
	ValidityDays    *int                  `json:"validity_days"`
	GSTNo           string                `json:"gst_no"`
	BillingAddress  string                `json:"billing_address"`
	ShippingAddress string                `json:"shipping_address"`
	SubTotal        decimal.Decimal       `json:"sub_total" swaggertype:"string"`
	Discount        decimal.Decimal       `json:"discount" swaggertype:"string"`
	TaxAmount       decimal.Decimal       `json:"tax_amount" swaggertype:"string"`
	Total           decimal.Decimal       `json:"total" swaggertype:"string"`
	Terms           *string               `json:"terms"`
	BankDetails     *string               `json:"bank_details"`
	Remarks         string                `json:"remarks"`
	Items           []EstimationItemInput `json:"items" binding:"required,min=1,dive"`
}

// EstimationResult is a saved estimation with the non-blocking warnings
// found in its figures.
type EstimationResult struct {
	Estimation *domain.Estimation   `json:"estimation"`
	Warnings   []estimation.Warning `json:"warnings"`
}

// ApproveInput is the DTO for approving an estimation.
type ApproveInput struct {
	CreditDays     *int
	PONumber       string
	PODate         string
	POReceivedDate string
	Attachment     *Attachment
	ApprovedBy     uuid.UUID
}

// FollowUpInput is the DTO for scheduling a follow-up.
type FollowUpInput struct {
	FollowUpDate string `json:"follow_up_date" example:"2025-06-20"`
	Remarks      string `json:"remarks"`
}

// EstimationService defines the quotation workflow contract.
type EstimationService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input EstimationInput) (*EstimationResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimation, error)
	List(ctx context.Context, filter domain.EstimationFilter) ([]domain.Estimation, int, error)
	Update(ctx context.Context, id uuid.UUID, input EstimationInput) (*EstimationResult, error)
	Approve(ctx context.Context, id uuid.UUID, input ApproveInput) (*domain.Estimation, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Estimation, error)
	MarkLost(ctx context.Context, id uuid.UUID, reason string) (*domain.Estimation, error)
	FollowUp(ctx context.Context, id uuid.UUID, input FollowUpInput) (*domain.Estimation, error)
}

type estimationService struct {
	tx          port.TxManager
	estimations port.EstimationRepository
	clients     port.ClientRepository
	leads       port.LeadRepository
	invoices    port.InvoiceRepository
	numbering   NumberingService
	settings    SettingsService
	storage     port.ObjectStorage
	maxUpload   int64
	logger      *zap.Logger
}

// NewEstimationService creates a new EstimationService implementation.
func NewEstimationService(
	tx port.TxManager,
	estimations port.EstimationRepository,
	clients port.ClientRepository,
	leads port.LeadRepository,
	invoices port.InvoiceRepository,
	numbering NumberingService,
	settings SettingsService,
	storage port.ObjectStorage,
	maxUploadBytes int64,
	logger *zap.Logger,
) EstimationService {
	return &estimationService{
		tx:          tx,
		estimations: estimations,
		clients:     clients,
		leads:       leads,
		invoices:    invoices,
		numbering:   numbering,
		settings:    settings,
		storage:     storage,
		maxUpload:   maxUploadBytes,
		logger:      logger,
	}
}

func validateItems(items []EstimationItemInput) ([]domain.EstimationItem, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "at least one item is required")
	}
	out := make([]domain.EstimationItem, len(items))
	for i, in := range items {
		field := fmt.Sprintf("items[%d]", i)
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			return nil, domain.NewValidationError(field+".description", "is required")
		}
		if !in.Quantity.IsPositive() {
			return nil, domain.NewValidationError(field+".quantity", "must be greater than zero")
		}
		if in.Rate.IsNegative() {
			return nil, domain.NewValidationError(field+".rate", "must not be negative")
		}
		if in.TaxRate.IsNegative() {
			return nil, domain.NewValidationError(field+".tax_rate", "must not be negative")
		}
		out[i] = domain.EstimationItem{
			Description: desc,
			Quantity:    in.Quantity,
			Rate:        in.Rate.Round(2),
			TaxRate:     in.TaxRate.Round(2),
			Amount:      in.Amount.Round(2),
		}
	}
	return out, nil
}

// applyInput copies input onto est, filling defaults from the client and the
// settings snapshot. It must run with the transaction context when called
// inside one.
func (s *estimationService) applyInput(ctx context.Context, est *domain.Estimation, input EstimationInput, settings *domain.Settings) error {
	date, err := parseDate("quote_date", input.QuoteDate, time.Now().UTC())
	if err != nil {
		return err
	}
	items, err := validateItems(input.Items)
	if err != nil {
		return err
	}
	for field, v := range map[string]decimal.Decimal{
		"sub_total": input.SubTotal, "discount": input.Discount,
		"tax_amount": input.TaxAmount, "total": input.Total,
	} {
		if v.IsNegative() {
			return domain.NewValidationError(field, "must not be negative")
		}
	}

	validity := DefaultValidityDays
	if input.ValidityDays != nil {
		if *input.ValidityDays < 0 {
			return domain.NewValidationError("validity_days", "must not be negative")
		}
		validity = *input.ValidityDays
	}

	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return err
	}
	if input.LeadID != nil {
		lead, err := s.lockLead(ctx, *input.LeadID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("lead_id", "lead does not exist")
			}
			return err
		}
		if lead.ClientID != client.ID {
			return domain.NewValidationError("lead_id", "lead belongs to a different client")
		}
	}

	est.QuoteDate = date
	est.ClientID = client.ID
	est.ClientName = client.CompanyName
	est.LeadID = input.LeadID
	est.ValidityDays = validity
	est.GSTNo = strings.ToUpper(strings.TrimSpace(input.GSTNo))
	if est.GSTNo == "" {
		est.GSTNo = client.GSTIN
	}
	est.BillingAddress = strings.TrimSpace(input.BillingAddress)
	if est.BillingAddress == "" {
		est.BillingAddress = client.Address
	}
	est.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	est.SubTotal = input.SubTotal.Round(2)
	est.Discount = input.Discount.Round(2)
	est.TaxAmount = input.TaxAmount.Round(2)
	est.Total = input.Total.Round(2)
	est.Terms = settings.Tax.DefaultTerms
	if input.Terms != nil {
		est.Terms = strings.TrimSpace(*input.Terms)
	}
	est.BankDetails = settings.Company.BankDetails
	if input.BankDetails != nil {
		est.BankDetails = strings.TrimSpace(*input.BankDetails)
	}
	est.Remarks = strings.TrimSpace(input.Remarks)
	est.Items = items
	return nil
}

// lockLead holds the lead row for the rest of the transaction so a
// concurrent lead edit cannot change its client underneath the estimation.
func (s *estimationService) lockLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	if err := s.leads.Lock(ctx, id); err != nil {
		return nil, err
	}
	return s.leads.GetByID(ctx, id)
}

func (s *estimationService) Create(ctx context.Context, createdBy uuid.UUID, input EstimationInput) (*EstimationResult, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	est := &domain.Estimation{Status: domain.EstimationPending, CreatedBy: &createdBy}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.applyInput(ctx, est, input, settings); err != nil {
			return err
		}
		no, err := s.numbering.Next(ctx, domain.NumberKindEstimation, est.QuoteDate)
		if err != nil {
			return err
		}
		est.QuoteNo = no
		return s.estimations.Create(ctx, est)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("estimation created",
		zap.String("estimation_id", est.ID.String()),
		zap.String("quote_no", est.QuoteNo),
		zap.String("total", est.Total.StringFixed(2)))
	return &EstimationResult{Estimation: est, Warnings: estimation.Validate(est)}, nil
}

func (s *estimationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimation, error) {
	return s.estimations.GetByID(ctx, id)
}

func (s *estimationService) List(ctx context.Context, filter domain.EstimationFilter) ([]domain.Estimation, int, error) {
	if filter.Status != "" && !domain.ValidEstimationStatuses[filter.Status] {
		return nil, 0, domain.NewValidationError("status", "unknown estimation status")
	}
	return s.estimations.List(ctx, filter)
}

func (s *estimationService) Update(ctx context.Context, id uuid.UUID, input EstimationInput) (*EstimationResult, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	var est *domain.Estimation
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		est, err = s.estimations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if est.Status != domain.EstimationPending {
			return domain.ErrInvalidTransition
		}
		if err := s.applyInput(ctx, est, input, settings); err != nil {
			return err
		}
		return s.estimations.Update(ctx, est)
	})
	if err != nil {
		return nil, err
	}
	return &EstimationResult{Estimation: est, Warnings: estimation.Validate(est)}, nil
}

// transition loads the estimation, checks the move to next is allowed, lets
// mutate fill in the workflow fields and persists it with a compare-and-set
// on the previous status.
func (s *estimationService) transition(
	ctx context.Context,
	id uuid.UUID,
	next domain.EstimationStatus,
	mutate func(ctx context.Context, est *domain.Estimation) error,
) (*domain.Estimation, error) {
	var est *domain.Estimation
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		est, err = s.estimations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from := est.Status
		if !domain.CanTransition(from, next) {
			return domain.ErrInvalidTransition
		}
		if err := mutate(ctx, est); err != nil {
			return err
		}
		est.Status = next
		return s.estimations.Transition(ctx, est, from)
	})
	if err != nil {
		return nil, err
	}
	return est, nil
}

func (s *estimationService) Approve(ctx context.Context, id uuid.UUID, input ApproveInput) (*domain.Estimation, error) {
	if input.CreditDays == nil {
		return nil, domain.NewValidationError("credit_days", "is required")
	}
	if *input.CreditDays < 0 {
		return nil, domain.NewValidationError("credit_days", "must not be negative")
	}
	poDate, err := parseOptionalDate("po_date", input.PODate)
	if err != nil {
		return nil, err
	}
	poReceived, err := parseOptionalDate("po_received_date", input.POReceivedDate)
	if err != nil {
		return nil, err
	}

	current, err := s.estimations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, domain.EstimationApproved) {
		return nil, domain.ErrInvalidTransition
	}

	var attachmentKey string
	if input.Attachment != nil {
		prefix := "po_attachments/" + domain.SafeFileName(current.QuoteNo)
		attachmentKey, err = uploadAttachment(ctx, s.storage, s.logger, s.maxUpload, prefix, input.Attachment)
		if err != nil {
			return nil, err
		}
	}

	est, err := s.transition(ctx, id, domain.EstimationApproved, func(ctx context.Context, est *domain.Estimation) error {
		if est.LeadID != nil {
			if err := s.leads.Lock(ctx, *est.LeadID); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		est.CreditDays = input.CreditDays
		est.PONumber = strings.TrimSpace(input.PONumber)
		est.PODate = poDate
		est.POReceivedDate = poReceived
		if attachmentKey != "" {
			est.POAttachmentKey = attachmentKey
		}
		est.ApprovedAt = &now
		est.ApprovedBy = &input.ApprovedBy
		return nil
	})
	if err != nil {
		if attachmentKey != "" {
			if delErr := s.storage.Delete(ctx, attachmentKey); delErr != nil {
				s.logger.Warn("orphaned PO attachment", zap.String("key", attachmentKey), zap.Error(delErr))
			}
		}
		return nil, err
	}

	s.logger.Info("estimation approved",
		zap.String("estimation_id", est.ID.String()),
		zap.String("quote_no", est.QuoteNo),
		zap.Int("credit_days", *est.CreditDays))
	return est, nil
}

// dropDraftInvoice removes the unapproved invoice of an estimation, if any.
// An approved invoice blocks the caller's transition.
func (s *estimationService) dropDraftInvoice(ctx context.Context, est *domain.Estimation) error {
	inv, err := s.invoices.GetByEstimation(ctx, est.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if inv.IsApproved {
		return domain.ErrInvoiceApproved
	}
	if err := s.invoices.DeleteDraft(ctx, inv.ID); err != nil {
		return err
	}
	s.logger.Info("draft invoice deleted",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("estimation_id", est.ID.String()))
	return nil
}

func (s *estimationService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.Estimation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "is required")
	}
	est, err := s.transition(ctx, id, domain.EstimationRejected, func(ctx context.Context, est *domain.Estimation) error {
		est.RejectionReason = reason
		return s.dropDraftInvoice(ctx, est)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("estimation rejected", zap.String("estimation_id", est.ID.String()), zap.String("quote_no", est.QuoteNo))
	return est, nil
}

func (s *estimationService) MarkLost(ctx context.Context, id uuid.UUID, reason string) (*domain.Estimation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "is required")
	}
	est, err := s.transition(ctx, id, domain.EstimationLost, func(ctx context.Context, est *domain.Estimation) error {
		est.LostReason = reason
		return s.dropDraftInvoice(ctx, est)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("estimation lost", zap.String("estimation_id", est.ID.String()), zap.String("quote_no", est.QuoteNo))
	return est, nil
}

func (s *estimationService) FollowUp(ctx context.Context, id uuid.UUID, input FollowUpInput) (*domain.Estimation, error) {
	date, err := parseOptionalDate("follow_up_date", input.FollowUpDate)
	if err != nil {
		return nil, err
	}
	est, err := s.estimations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if est.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}

	remarks := strings.TrimSpace(input.Remarks)
	if err := s.estimations.SetFollowUp(ctx, id, date, remarks); err != nil {
		return nil, err
	}
	est.FollowUpDate = date
	est.FollowUpRemarks = remarks
	return est, nil
}
