package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quotecrm/internal/config"
	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/router"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pinger struct{}

func (pinger) PingContext(context.Context) error { return nil }

type testRouter struct {
	engine  *gin.Engine
	auth    *mocks.MockAuthService
	caps    *mocks.MockCapabilityService
	clients *mocks.MockClientService
	stats   *mocks.MockStatsService
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()
	tr := &testRouter{
		auth:    new(mocks.MockAuthService),
		caps:    new(mocks.MockCapabilityService),
		clients: new(mocks.MockClientService),
		stats:   new(mocks.MockStatsService),
	}
	users := new(mocks.MockUserService)
	leads := new(mocks.MockLeadService)
	estimations := new(mocks.MockEstimationService)
	invoices := new(mocks.MockInvoiceService)
	payments := new(mocks.MockPaymentService)

	tr.engine = router.Setup(zap.NewNop(), config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		tr.auth, tr.caps, router.Handlers{
			Auth:       handler.NewAuthHandler(tr.auth, users, tr.caps),
			User:       handler.NewUserHandler(users, tr.caps),
			Client:     handler.NewClientHandler(tr.clients, leads),
			Lead:       handler.NewLeadHandler(leads),
			Estimation: handler.NewEstimationHandler(estimations, invoices),
			Invoice:    handler.NewInvoiceHandler(invoices, payments),
			Document:   handler.NewDocumentHandler(new(mocks.MockDocumentService)),
			Report:     handler.NewReportHandler(new(mocks.MockReportService)),
			Stats:      handler.NewStatsHandler(tr.stats),
			Settings:   handler.NewSettingsHandler(new(mocks.MockSettingsService)),
			Health:     handler.NewHealthHandler(pinger{}),
		})
	return tr
}

func (tr *testRouter) signIn(role domain.UserRole) uuid.UUID {
	userID := uuid.New()
	tr.auth.On("ValidateToken", "token-"+string(role)).Return(&service.Claims{
		UserID: userID, Username: string(role), Role: role,
	}, nil)
	tr.caps.On("Effective", mock.Anything, userID, role).Return(domain.EffectiveCapabilities(role, nil), nil)
	return userID
}

func (tr *testRouter) do(method, path string, role domain.UserRole) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	if role != "" {
		req.Header.Set("Authorization", "Bearer token-"+string(role))
	}
	w := httptest.NewRecorder()
	tr.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	tr := newTestRouter(t)
	assert.Equal(t, http.StatusOK, tr.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, tr.do(http.MethodGet, "/readyz", "").Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	tr := newTestRouter(t)
	w := tr.do(http.MethodGet, "/api/v1/clients", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	tr.clients.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestRouter_CapabilityChecks(t *testing.T) {
	tr := newTestRouter(t)
	tr.signIn(domain.RoleSales)
	tr.signIn(domain.RoleManager)
	tr.clients.On("List", mock.Anything, mock.Anything).Return([]domain.Client{}, 0, nil)
	tr.stats.On("Dashboard", mock.Anything, mock.Anything).Return(&domain.DashboardStats{}, nil)

	tests := []struct {
		name   string
		method string
		path   string
		role   domain.UserRole
		want   int
	}{
		{"sales lists clients", http.MethodGet, "/api/v1/clients", domain.RoleSales, http.StatusOK},
		{"sales cannot see dashboard", http.MethodGet, "/api/v1/dashboard", domain.RoleSales, http.StatusForbidden},
		{"manager sees dashboard", http.MethodGet, "/api/v1/dashboard", domain.RoleManager, http.StatusOK},
		{"sales cannot approve estimation", http.MethodPost, "/api/v1/estimations/" + uuid.NewString() + "/approve", domain.RoleSales, http.StatusForbidden},
		{"sales cannot record payment", http.MethodPost, "/api/v1/invoices/" + uuid.NewString() + "/payments", domain.RoleSales, http.StatusForbidden},
		{"manager cannot manage users", http.MethodGet, "/api/v1/users", domain.RoleManager, http.StatusForbidden},
		{"manager cannot change settings", http.MethodPut, "/api/v1/settings/tax", domain.RoleManager, http.StatusForbidden},
		{"unknown export format", http.MethodGet, "/api/v1/reports/export/word", domain.RoleManager, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tr.do(tt.method, tt.path, tt.role)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_SwaggerDoc(t *testing.T) {
	tr := newTestRouter(t)
	w := tr.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger string                            `json:"swagger"`
		Paths   map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/estimations/{id}/approve")
	assert.Contains(t, doc.Paths["/invoices/{id}/payments"], "post")
	assert.NotContains(t, doc.Paths, "/swagger/{any}")
}
