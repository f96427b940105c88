package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// ClientInput is the DTO for creating or updating a client.
type ClientInput struct {
	CompanyName   string `json:"company_name" binding:"required"`
	CompanyType   string `json:"company_type"`
	GSTIN         string `json:"gstin"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
}

// ClientService defines the client management contract.
type ClientService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input ClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Client, int, error)
	Update(ctx context.Context, id uuid.UUID, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	repo port.ClientRepository
}

// NewClientService creates a new ClientService implementation.
func NewClientService(repo port.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func applyClientInput(c *domain.Client, input ClientInput) error {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return domain.NewValidationError("company_name", "is required")
	}
	gstin := strings.ToUpper(strings.TrimSpace(input.GSTIN))
	if gstin != "" && !domain.ValidGSTIN(gstin) {
		return domain.NewValidationError("gstin", "is not a valid GSTIN")
	}

	c.CompanyName = name
	c.CompanyType = strings.TrimSpace(input.CompanyType)
	c.GSTIN = gstin
	c.ContactPerson = strings.TrimSpace(input.ContactPerson)
	c.Email = strings.TrimSpace(input.Email)
	c.Phone = strings.TrimSpace(input.Phone)
	c.Address = strings.TrimSpace(input.Address)
	c.City = strings.TrimSpace(input.City)
	c.State = strings.TrimSpace(input.State)
	c.Pincode = strings.TrimSpace(input.Pincode)
	return nil
}

func (s *clientService) Create(ctx context.Context, createdBy uuid.UUID, input ClientInput) (*domain.Client, error) {
	c := &domain.Client{CreatedBy: &createdBy}
	if err := applyClientInput(c, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Client, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, input ClientInput) (*domain.Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyClientInput(c, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrClientInUse
	}
	return s.repo.Delete(ctx, id)
}
