package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// LeadInput is the DTO for creating or updating a lead. The lead number is
// assigned on creation and never changes.
type LeadInput struct {
	LeadDate      string    `json:"lead_date" example:"2025-06-15"`
	ClientID      uuid.UUID `json:"client_id" binding:"required"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email" binding:"omitempty,email"`
	Source        string    `json:"source"`
	Requirement   string    `json:"requirement"`
	Remarks       string    `json:"remarks"`
}

// LeadService defines the lead management contract. Every lead it returns
// carries its status projected from the lead's estimations.
type LeadService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input LeadInput) (*domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	List(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, int, error)
	Update(ctx context.Context, id uuid.UUID, input LeadInput) (*domain.Lead, error)
	// PendingForClient lists the client's leads that are still open for quoting.
	PendingForClient(ctx context.Context, clientID uuid.UUID) ([]domain.Lead, error)
}

type leadService struct {
	tx          port.TxManager
	leads       port.LeadRepository
	clients     port.ClientRepository
	estimations port.EstimationRepository
	numbering   NumberingService
}

// NewLeadService creates a new LeadService implementation.
func NewLeadService(
	tx port.TxManager,
	leads port.LeadRepository,
	clients port.ClientRepository,
	estimations port.EstimationRepository,
	numbering NumberingService,
) LeadService {
	return &leadService{
		tx:          tx,
		leads:       leads,
		clients:     clients,
		estimations: estimations,
		numbering:   numbering,
	}
}

// projectLeadStatuses fills in the Status of every lead from its estimation
// history.
func projectLeadStatuses(ctx context.Context, estimations port.EstimationRepository, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(leads))
	for i := range leads {
		ids[i] = leads[i].ID
	}
	history, err := estimations.StatusHistory(ctx, ids)
	if err != nil {
		return err
	}
	for i := range leads {
		leads[i].Status = domain.ProjectLeadStatus(history[leads[i].ID])
	}
	return nil
}

func (s *leadService) applyInput(ctx context.Context, lead *domain.Lead, input LeadInput) error {
	date, err := parseDate("lead_date", input.LeadDate, time.Now().UTC())
	if err != nil {
		return err
	}
	client, err := s.clients.GetByID(ctx, input.ClientID)
	if err != nil {
		return err
	}

	lead.LeadDate = date
	lead.ClientID = client.ID
	lead.ClientName = client.CompanyName
	lead.ContactPerson = strings.TrimSpace(input.ContactPerson)
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.Email = strings.TrimSpace(input.Email)
	lead.Source = strings.TrimSpace(input.Source)
	lead.Requirement = strings.TrimSpace(input.Requirement)
	lead.Remarks = strings.TrimSpace(input.Remarks)
	return nil
}

func (s *leadService) Create(ctx context.Context, createdBy uuid.UUID, input LeadInput) (*domain.Lead, error) {
	lead := &domain.Lead{CreatedBy: &createdBy}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.applyInput(ctx, lead, input); err != nil {
			return err
		}
		no, err := s.numbering.Next(ctx, domain.NumberKindLead, lead.LeadDate)
		if err != nil {
			return err
		}
		lead.LeadNo = no
		return s.leads.Create(ctx, lead)
	})
	if err != nil {
		return nil, err
	}
	lead.Status = domain.LeadPending
	return lead, nil
}

func (s *leadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	one := []domain.Lead{*lead}
	if err := projectLeadStatuses(ctx, s.estimations, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// List pages in SQL when no status filter is given. A status filter needs
// the projection of every candidate, so matching and paging happen here.
func (s *leadService) List(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, int, error) {
	if filter.Status == "" {
		leads, total, err := s.leads.List(ctx, filter.ListFilter)
		if err != nil {
			return nil, 0, err
		}
		if err := projectLeadStatuses(ctx, s.estimations, leads); err != nil {
			return nil, 0, err
		}
		return leads, total, nil
	}

	if !domain.ValidLeadStatuses[filter.Status] {
		return nil, 0, domain.NewValidationError("status", "unknown lead status")
	}
	all, err := s.leads.ListAll(ctx, filter.ListFilter)
	if err != nil {
		return nil, 0, err
	}
	if err := projectLeadStatuses(ctx, s.estimations, all); err != nil {
		return nil, 0, err
	}
	matched := all[:0]
	for _, l := range all {
		if l.Status == filter.Status {
			matched = append(matched, l)
		}
	}
	return paginate(matched, filter.Offset, filter.Limit), len(matched), nil
}

// Update edits a lead that is not yet won. A lead with estimations keeps
// its client.
func (s *leadService) Update(ctx context.Context, id uuid.UUID, input LeadInput) (*domain.Lead, error) {
	var lead *domain.Lead
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.leads.Lock(ctx, id); err != nil {
			return err
		}
		var err error
		lead, err = s.leads.GetByID(ctx, id)
		if err != nil {
			return err
		}
		history, err := s.estimations.StatusHistory(ctx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		lead.Status = domain.ProjectLeadStatus(history[id])
		if lead.Status == domain.LeadWon {
			return domain.ErrLeadLocked
		}
		if input.ClientID != lead.ClientID && len(history[id]) > 0 {
			return domain.NewValidationError("client_id", "lead has estimations and cannot move to another client")
		}
		if err := s.applyInput(ctx, lead, input); err != nil {
			return err
		}
		return s.leads.Update(ctx, lead)
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) PendingForClient(ctx context.Context, clientID uuid.UUID) ([]domain.Lead, error) {
	all, err := s.leads.ListAll(ctx, domain.ListFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}
	if err := projectLeadStatuses(ctx, s.estimations, all); err != nil {
		return nil, err
	}
	open := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if l.Status == domain.LeadPending || l.Status == domain.LeadQuoted {
			open = append(open, l)
		}
	}
	return open, nil
}

// paginate returns the window of items selected by offset and limit. A
// non-positive limit returns everything from offset.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
