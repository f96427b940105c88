package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

func newInvoiceHandler() (*handler.InvoiceHandler, *mocks.MockInvoiceService, *mocks.MockPaymentService) {
	invoices := new(mocks.MockInvoiceService)
	payments := new(mocks.MockPaymentService)
	return handler.NewInvoiceHandler(invoices, payments), invoices, payments
}

func TestInvoiceHandler_List_Overdue(t *testing.T) {
	h, invoices, _ := newInvoiceHandler()
	clientID := uuid.New()

	invoices.On("List", mock.Anything, mock.MatchedBy(func(f domain.InvoiceFilter) bool {
		return f.OverdueAt != nil && f.Status == domain.InvoicePartialPaid &&
			f.ClientID != nil && *f.ClientID == clientID
	})).Return([]domain.Invoice{{InvoiceNo: "INV-0003"}}, 1, nil)

	c, w := newContext(t, http.MethodGet,
		"/api/v1/invoices?overdue=true&status=Partial+Paid&client_id="+clientID.String(), nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	invoices.AssertExpectations(t)
}

func TestInvoiceHandler_List_UnknownStatus(t *testing.T) {
	h, invoices, _ := newInvoiceHandler()
	invoices.On("List", mock.Anything, mock.Anything).Return(nil, 0, domain.NewValidationError("status", "unknown invoice status"))

	c, w := newContext(t, http.MethodGet, "/api/v1/invoices?status=Settled", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status: unknown invoice status", decode(t, w).Error.Message)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	h, invoices, _ := newInvoiceHandler()
	id := uuid.New()
	invoices.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	c, w := newContext(t, http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
	withID(c, id)
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_Approve_AlreadyApproved(t *testing.T) {
	h, invoices, _ := newInvoiceHandler()
	id := uuid.New()
	invoices.On("Approve", mock.Anything, id).Return(nil, domain.ErrInvoiceApproved)

	c, w := newContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/approve", nil)
	withID(c, id)
	h.Approve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceHandler_Reconcile(t *testing.T) {
	h, invoices, _ := newInvoiceHandler()
	id := uuid.New()
	invoices.On("Reconcile", mock.Anything, id).Return(&domain.Invoice{
		ID:         id,
		PaidAmount: decimal.NewFromInt(400),
		BalanceDue: decimal.NewFromInt(600),
		Status:     domain.InvoicePartialPaid,
	}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/reconcile", nil)
	withID(c, id)
	h.Reconcile(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "Partial Paid", data["status"])
}

func TestInvoiceHandler_RecordPayment(t *testing.T) {
	h, _, payments := newInvoiceHandler()
	userID, id := uuid.New(), uuid.New()

	payments.On("Record", mock.Anything, id, userID, mock.MatchedBy(func(in service.RecordPaymentInput) bool {
		return in.Amount.Equal(decimal.RequireFromString("400.50")) && in.ReferenceNo == "UTR123" && !in.Pending
	})).Return(&service.PaymentResult{
		Payment: &domain.PaymentLog{ID: uuid.New(), InvoiceID: id, Status: domain.PaymentPartialPaid},
		Invoice: &domain.Invoice{ID: id, Status: domain.InvoicePartialPaid},
	}, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/payments", map[string]interface{}{
		"amount":       "400.50",
		"reference_no": "UTR123",
		"payment_date": "2025-06-20",
	})
	withID(c, id)
	setAuthContext(c, userID, domain.RoleManager)
	h.RecordPayment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	payments.AssertExpectations(t)
}

func TestInvoiceHandler_RecordPayment_Invalid(t *testing.T) {
	h, _, payments := newInvoiceHandler()
	id := uuid.New()
	payments.On("Record", mock.Anything, id, mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("amount", "must be greater than zero"))

	c, w := newContext(t, http.MethodPost, "/api/v1/invoices/"+id.String()+"/payments", map[string]interface{}{"amount": "-5"})
	withID(c, id)
	setAuthContext(c, uuid.New(), domain.RoleManager)
	h.RecordPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestInvoiceHandler_ListPayments(t *testing.T) {
	h, _, payments := newInvoiceHandler()
	id := uuid.New()
	payments.On("ListByInvoice", mock.Anything, id).Return([]domain.PaymentLog{{InvoiceID: id}, {InvoiceID: id}}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/invoices/"+id.String()+"/payments", nil)
	withID(c, id)
	h.ListPayments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 2)
}

func TestInvoiceHandler_ConfirmPayment_AlreadyConfirmed(t *testing.T) {
	h, _, payments := newInvoiceHandler()
	id := uuid.New()
	payments.On("Confirm", mock.Anything, id).Return(nil, domain.ErrPaymentConfirmed)

	c, w := newContext(t, http.MethodPost, "/api/v1/payments/"+id.String()+"/confirm", nil)
	withID(c, id)
	h.ConfirmPayment(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PAYMENT_CONFIRMED", errorCode(t, w))
}
