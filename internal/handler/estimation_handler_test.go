package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/service"
	"quotecrm/internal/validator/estimation"
	"quotecrm/mocks"
)

func newEstimationHandler() (*handler.EstimationHandler, *mocks.MockEstimationService, *mocks.MockInvoiceService) {
	estimations := new(mocks.MockEstimationService)
	invoices := new(mocks.MockInvoiceService)
	return handler.NewEstimationHandler(estimations, invoices), estimations, invoices
}

func estimationBody(clientID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"client_id":  clientID.String(),
		"quote_date": "2025-06-15",
		"sub_total":  "1000",
		"tax_amount": "180",
		"total":      "1200",
		"items": []map[string]string{
			{"description": "Steel rack", "quantity": "2", "rate": "500", "tax_rate": "18", "amount": "1180"},
		},
	}
}

func TestEstimationHandler_Create_ReturnsWarnings(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	userID, clientID := uuid.New(), uuid.New()

	estimations.On("Create", mock.Anything, userID, mock.MatchedBy(func(in service.EstimationInput) bool {
		return in.ClientID == clientID && len(in.Items) == 1 && in.Total.Equal(decimal.NewFromInt(1200))
	})).Return(&service.EstimationResult{
		Estimation: &domain.Estimation{ID: uuid.New(), QuoteNo: "EST-0001", Status: domain.EstimationPending},
		Warnings:   []estimation.Warning{{RuleKey: "total", FieldPath: "total", Message: "does not match subtotal plus tax"}},
	}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations", estimationBody(clientID))
	setAuthContext(c, userID, domain.RoleSales)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Len(t, data["warnings"], 1)
	estimations.AssertExpectations(t)
}

func TestEstimationHandler_Create_NoItems(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	body := estimationBody(uuid.New())
	body["items"] = []map[string]string{}

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations", body)
	setAuthContext(c, uuid.New(), domain.RoleSales)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	estimations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEstimationHandler_List_Filters(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	leadID := uuid.New()

	estimations.On("List", mock.Anything, mock.MatchedBy(func(f domain.EstimationFilter) bool {
		return f.Status == domain.EstimationPending && f.LeadID != nil && *f.LeadID == leadID &&
			f.FollowUpDue != nil && f.Offset == 10 && f.Limit == 5
	})).Return([]domain.Estimation{}, 12, nil)

	c, w := newContext(t, http.MethodGet,
		"/api/v1/estimations?status=Pending&follow_up=due&offset=10&limit=5&lead_id="+leadID.String(), nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, decode(t, w).Meta.Total)
}

func TestEstimationHandler_List_BadFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad lead id", "lead_id=nope"},
		{"bad follow up", "follow_up=tomorrow"},
		{"bad client id", "client_id=nope"},
		{"bad date", "from=15-06-2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, estimations, _ := newEstimationHandler()
			c, w := newContext(t, http.MethodGet, "/api/v1/estimations?"+tt.query, nil)
			h.List(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
			estimations.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestEstimationHandler_Update_NotPending(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()
	estimations.On("Update", mock.Anything, id, mock.AnythingOfType("service.EstimationInput")).Return(nil, domain.ErrInvalidTransition)

	c, w := newContext(t, http.MethodPut, "/api/v1/estimations/"+id.String(), estimationBody(uuid.New()))
	withID(c, id)
	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))
}

func approveRequest(t *testing.T, fields map[string]string, fileName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("po_attachment", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 purchase order"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/estimations/x/approve", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestEstimationHandler_Approve_WithAttachment(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	userID, id := uuid.New(), uuid.New()

	estimations.On("Approve", mock.Anything, id, mock.MatchedBy(func(in service.ApproveInput) bool {
		return in.CreditDays != nil && *in.CreditDays == 45 &&
			in.PONumber == "PO-77" && in.PODate == "2025-06-18" &&
			in.ApprovedBy == userID &&
			in.Attachment != nil && in.Attachment.Header.Filename == "po.pdf"
	})).Return(&domain.Estimation{ID: id, Status: domain.EstimationApproved}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = approveRequest(t, map[string]string{
		"credit_days": "45",
		"po_number":   "PO-77",
		"po_date":     "2025-06-18",
	}, "po.pdf")
	withID(c, id)
	setAuthContext(c, userID, domain.RoleManager)
	h.Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	estimations.AssertExpectations(t)
}

func TestEstimationHandler_Approve_WithoutAttachment(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()

	estimations.On("Approve", mock.Anything, id, mock.MatchedBy(func(in service.ApproveInput) bool {
		return in.Attachment == nil && in.CreditDays == nil
	})).Return(nil, domain.NewValidationError("credit_days", "is required"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = approveRequest(t, map[string]string{"po_number": "PO-77"}, "")
	withID(c, id)
	setAuthContext(c, uuid.New(), domain.RoleManager)
	h.Approve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, "credit_days")
}

func TestEstimationHandler_Approve_BadCreditDays(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = approveRequest(t, map[string]string{"credit_days": "thirty"}, "")
	withID(c, id)
	setAuthContext(c, uuid.New(), domain.RoleManager)
	h.Approve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	estimations.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
}

func TestEstimationHandler_Reject(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()
	estimations.On("Reject", mock.Anything, id, "Budget cut").
		Return(&domain.Estimation{ID: id, Status: domain.EstimationRejected, RejectionReason: "Budget cut"}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations/"+id.String()+"/reject", map[string]string{"reason": "Budget cut"})
	withID(c, id)
	h.Reject(c)

	assert.Equal(t, http.StatusOK, w.Code)
	estimations.AssertExpectations(t)
}

func TestEstimationHandler_Reject_ApprovedInvoice(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()
	estimations.On("Reject", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvoiceApproved)

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations/"+id.String()+"/reject", map[string]string{"reason": "Late"})
	withID(c, id)
	h.Reject(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_APPROVED", errorCode(t, w))
}

func TestEstimationHandler_MarkLost(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()
	estimations.On("MarkLost", mock.Anything, id, "Went with competitor").
		Return(&domain.Estimation{ID: id, Status: domain.EstimationLost}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations/"+id.String()+"/lost", map[string]string{"reason": "Went with competitor"})
	withID(c, id)
	h.MarkLost(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEstimationHandler_FollowUp(t *testing.T) {
	h, estimations, _ := newEstimationHandler()
	id := uuid.New()
	estimations.On("FollowUp", mock.Anything, id, service.FollowUpInput{FollowUpDate: "2025-06-25", Remarks: "Call purchase"}).
		Return(&domain.Estimation{ID: id}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations/"+id.String()+"/follow-up", map[string]string{
		"follow_up_date": "2025-06-25",
		"remarks":        "Call purchase",
	})
	withID(c, id)
	h.FollowUp(c)

	assert.Equal(t, http.StatusOK, w.Code)
	estimations.AssertExpectations(t)
}

func TestEstimationHandler_GenerateInvoice(t *testing.T) {
	tests := []struct {
		name  string
		query string
		draft bool
	}{
		{"approved", "", false},
		{"draft", "?draft=true", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, invoices := newEstimationHandler()
			userID, id := uuid.New(), uuid.New()
			invoices.On("Generate", mock.Anything, id, service.GenerateInvoiceInput{Draft: tt.draft, CreatedBy: userID}).
				Return(&domain.Invoice{ID: uuid.New(), InvoiceNo: "INV-0001", IsApproved: !tt.draft}, nil)

			c, w := newContext(t, http.MethodPost, "/api/v1/estimations/"+id.String()+"/invoice"+tt.query, nil)
			withID(c, id)
			setAuthContext(c, userID, domain.RoleManager)
			h.GenerateInvoice(c)

			assert.Equal(t, http.StatusCreated, w.Code)
			invoices.AssertExpectations(t)
		})
	}
}

func TestEstimationHandler_GenerateInvoice_AlreadyExists(t *testing.T) {
	h, _, invoices := newEstimationHandler()
	id := uuid.New()
	invoices.On("Generate", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvoiceAlreadyExists)

	c, w := newContext(t, http.MethodPost, "/api/v1/estimations/"+id.String()+"/invoice", nil)
	withID(c, id)
	setAuthContext(c, uuid.New(), domain.RoleManager)
	h.GenerateInvoice(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_ALREADY_EXISTS", errorCode(t, w))
}
