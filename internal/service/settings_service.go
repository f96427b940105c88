package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"quotecrm/internal/config"
	"quotecrm/internal/domain"
	"quotecrm/internal/port"
)

// UpdateTaxInput is the DTO for saving tax settings.
type UpdateTaxInput struct {
	GSTPercentage decimal.Decimal `json:"gst_percentage" swaggertype:"string"`
	DefaultTerms  string          `json:"default_terms"`
}

// UpdateNumberingInput is the DTO for saving one numbering sequence.
type UpdateNumberingInput struct {
	Prefix     string                 `json:"prefix" binding:"required"`
	Frequency  domain.NumberFrequency `json:"frequency" binding:"required"`
	Padding    int                    `json:"padding" binding:"required"`
	NextNumber int64                  `json:"next_number" binding:"required"`
}

// SettingsService loads and saves the CRM configuration.
type SettingsService interface {
	// Load reads the configuration snapshot an operation should work with.
	Load(ctx context.Context) (*domain.Settings, error)
	UpdateTax(ctx context.Context, input UpdateTaxInput) (*domain.TaxSettings, error)
	UpdateNumbering(ctx context.Context, kind domain.NumberKind, input UpdateNumberingInput) (*domain.NumberingSettings, error)
}

type settingsService struct {
	tx      port.TxManager
	repo    port.SettingsRepository
	company domain.CompanyProfile
}

// NewSettingsService creates a new SettingsService implementation.
func NewSettingsService(tx port.TxManager, repo port.SettingsRepository, company config.CompanyConfig) SettingsService {
	return &settingsService{
		tx:   tx,
		repo: repo,
		company: domain.CompanyProfile{
			Name:        company.Name,
			Address:     company.Address,
			GSTIN:       company.GSTIN,
			Phone:       company.Phone,
			Email:       company.Email,
			BankDetails: company.BankDetails,
			UPIID:       company.UPIID,
		},
	}
}

func (s *settingsService) Load(ctx context.Context) (*domain.Settings, error) {
	tax, err := s.repo.GetTax(ctx)
	if err != nil {
		return nil, err
	}
	numbering, err := s.repo.ListNumbering(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Settings{Tax: *tax, Numbering: numbering, Company: s.company}, nil
}

func (s *settingsService) UpdateTax(ctx context.Context, input UpdateTaxInput) (*domain.TaxSettings, error) {
	if input.GSTPercentage.IsNegative() || input.GSTPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.NewValidationError("gst_percentage", "must be between 0 and 100")
	}
	tax := &domain.TaxSettings{
		GSTPercentage: input.GSTPercentage.Round(2),
		DefaultTerms:  strings.TrimSpace(input.DefaultTerms),
	}
	if err := s.repo.SaveTax(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}

func (s *settingsService) UpdateNumbering(ctx context.Context, kind domain.NumberKind, input UpdateNumberingInput) (*domain.NumberingSettings, error) {
	ns := &domain.NumberingSettings{
		Kind:       kind,
		Prefix:     strings.ToUpper(strings.TrimSpace(input.Prefix)),
		Frequency:  input.Frequency,
		Padding:    input.Padding,
		NextNumber: input.NextNumber,
	}
	if err := domain.ValidateNumberingSettings(*ns); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.ListNumbering(ctx)
		if err != nil {
			return err
		}
		for _, c := range current {
			if c.Kind == kind && ns.NextNumber < c.NextNumber {
				return domain.NewNumberRewindError()
			}
		}
		return s.repo.SaveNumbering(ctx, ns)
	})
	if err != nil {
		return nil, err
	}
	return ns, nil
}
