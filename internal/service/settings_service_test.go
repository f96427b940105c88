package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/config"
	"quotecrm/internal/domain"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

func TestSettingsService_Load(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(&mocks.TxManager{}, repo, config.CompanyConfig{Name: "Quote Works", UPIID: "qw@upi"})

	repo.On("GetTax", mock.Anything).Return(&domain.TaxSettings{GSTPercentage: decimal.NewFromInt(18)}, nil)
	repo.On("ListNumbering", mock.Anything).Return([]domain.NumberingSettings{
		domain.DefaultNumberingSettings(domain.NumberKindInvoice),
	}, nil)

	s, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Tax.GSTPercentage.Equal(decimal.NewFromInt(18)))
	assert.Len(t, s.Numbering, 1)
	assert.Equal(t, "Quote Works", s.Company.Name)
	assert.Equal(t, "qw@upi", s.Company.UPIID)
}

func TestSettingsService_UpdateTax(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(&mocks.TxManager{}, repo, config.CompanyConfig{})

	repo.On("SaveTax", mock.Anything, mock.AnythingOfType("*domain.TaxSettings")).Return(nil)

	tax, err := svc.UpdateTax(context.Background(), service.UpdateTaxInput{
		GSTPercentage: decimal.RequireFromString("12.345"),
		DefaultTerms:  "  50% advance ",
	})
	require.NoError(t, err)
	assert.Equal(t, "12.35", tax.GSTPercentage.StringFixed(2))
	assert.Equal(t, "50% advance", tax.DefaultTerms)

	_, err = svc.UpdateTax(context.Background(), service.UpdateTaxInput{GSTPercentage: decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNumberOfCalls(t, "SaveTax", 1)
}

func TestSettingsService_UpdateNumbering(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(&mocks.TxManager{}, repo, config.CompanyConfig{})

	current := domain.NumberingSettings{Kind: domain.NumberKindEstimation, Prefix: "EST", Frequency: domain.FrequencyNone, Padding: 4, NextNumber: 42}
	repo.On("ListNumbering", mock.Anything).Return([]domain.NumberingSettings{current}, nil)
	repo.On("SaveNumbering", mock.Anything, mock.AnythingOfType("*domain.NumberingSettings")).Return(nil)

	ns, err := svc.UpdateNumbering(context.Background(), domain.NumberKindEstimation, service.UpdateNumberingInput{
		Prefix:     " qt ",
		Frequency:  domain.FrequencyYearly,
		Padding:    5,
		NextNumber: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "QT", ns.Prefix)
	assert.Equal(t, int64(50), ns.NextNumber)

	_, err = svc.UpdateNumbering(context.Background(), domain.NumberKindEstimation, service.UpdateNumberingInput{
		Prefix:     "QT",
		Frequency:  domain.FrequencyYearly,
		Padding:    5,
		NextNumber: 10,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNumberOfCalls(t, "SaveNumbering", 1)
}

func TestSettingsService_UpdateNumbering_RepositoryRefusesRewind(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	tx := &mocks.TxManager{}
	svc := service.NewSettingsService(tx, repo, config.CompanyConfig{})

	repo.On("ListNumbering", mock.Anything).Return([]domain.NumberingSettings{
		domain.DefaultNumberingSettings(domain.NumberKindInvoice),
	}, nil)
	repo.On("SaveNumbering", mock.Anything, mock.AnythingOfType("*domain.NumberingSettings")).
		Return(domain.NewNumberRewindError())

	_, err := svc.UpdateNumbering(context.Background(), domain.NumberKindInvoice, service.UpdateNumberingInput{
		Prefix:     "INV",
		Frequency:  domain.FrequencyNone,
		Padding:    4,
		NextNumber: 1,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "next_number", verr.Field)
	assert.Equal(t, 1, tx.Calls)
}

func TestNumberingService_Next(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewNumberingService(repo)

	settings := domain.NumberingSettings{Kind: domain.NumberKindEstimation, Prefix: "EST", Frequency: domain.FrequencyMonthly, Padding: 4}
	repo.On("NextNumber", mock.Anything, domain.NumberKindEstimation).Return(settings, int64(12), nil)

	no, err := svc.Next(context.Background(), domain.NumberKindEstimation, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "EST/2025/06/0012", no)
}

func TestNumberingService_Next_UnknownKind(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewNumberingService(repo)

	_, err := svc.Next(context.Background(), "receipt", time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything)
}

func TestNumberingService_Next_RepoError(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewNumberingService(repo)
	repo.On("NextNumber", mock.Anything, domain.NumberKindLead).Return(domain.NumberingSettings{}, int64(0), domain.ErrNotFound)

	_, err := svc.Next(context.Background(), domain.NumberKindLead, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
