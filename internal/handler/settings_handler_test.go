package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

func TestSettingsHandler_Get(t *testing.T) {
	settings := new(mocks.MockSettingsService)
	h := handler.NewSettingsHandler(settings)
	settings.On("Load", mock.Anything).Return(&domain.Settings{
		Tax:       domain.TaxSettings{GSTPercentage: decimal.NewFromInt(18)},
		Numbering: []domain.NumberingSettings{domain.DefaultNumberingSettings(domain.NumberKindInvoice)},
		Company:   domain.CompanyProfile{Name: "Quote Works"},
	}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/settings", nil)
	h.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "Quote Works", data["company"].(map[string]interface{})["name"])
	assert.Len(t, data["numbering"], 1)
}

func TestSettingsHandler_UpdateNumbering(t *testing.T) {
	settings := new(mocks.MockSettingsService)
	h := handler.NewSettingsHandler(settings)
	settings.On("UpdateNumbering", mock.Anything, domain.NumberKindEstimation, service.UpdateNumberingInput{
		Prefix: "QT", Frequency: domain.FrequencyYearly, Padding: 5, NextNumber: 50,
	}).Return(&domain.NumberingSettings{Kind: domain.NumberKindEstimation, Prefix: "QT"}, nil)

	c, w := newContext(t, http.MethodPut, "/api/v1/settings/numbering/estimation", map[string]interface{}{
		"prefix":      "QT",
		"frequency":   "yearly",
		"padding":     5,
		"next_number": 50,
	})
	c.AddParam("kind", "estimation")
	h.UpdateNumbering(c)

	assert.Equal(t, http.StatusOK, w.Code)
	settings.AssertExpectations(t)
}

func TestSettingsHandler_UpdateTax_Invalid(t *testing.T) {
	settings := new(mocks.MockSettingsService)
	h := handler.NewSettingsHandler(settings)
	settings.On("UpdateTax", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("gst_percentage", "must be between 0 and 100"))

	c, w := newContext(t, http.MethodPut, "/api/v1/settings/tax", map[string]string{"gst_percentage": "120"})
	h.UpdateTax(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "gst_percentage: must be between 0 and 100", decode(t, w).Error.Message)
}

func TestStatsHandler_Dashboard(t *testing.T) {
	stats := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(stats)
	stats.On("Dashboard", mock.Anything, service.DashboardInput{Period: domain.PeriodThisMonth}).
		Return(&domain.DashboardStats{LeadCount: 3}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/dashboard", nil)
	h.Dashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	stats.AssertExpectations(t)
}

func TestStatsHandler_Dashboard_InvalidPeriod(t *testing.T) {
	stats := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(stats)
	stats.On("Dashboard", mock.Anything, service.DashboardInput{Period: "fortnight"}).
		Return(nil, domain.NewValidationError("period", "unknown period"))

	c, w := newContext(t, http.MethodGet, "/api/v1/dashboard?period=fortnight", nil)
	h.Dashboard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	h := handler.NewHealthHandler(fakePinger{})
	c, w := newContext(t, http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = handler.NewHealthHandler(fakePinger{err: assert.AnError})
	c, w = newContext(t, http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())

	c, w = newContext(t, http.MethodGet, "/healthz", nil)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
