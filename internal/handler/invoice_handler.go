package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// InvoiceHandler handles invoice and payment endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	paymentService service.PaymentService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, paymentService service.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, paymentService: paymentService}
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param q query string false "Search text"
// @Param client_id query string false "Client ID (UUID)"
// @Param status query string false "Unpaid, Partial Paid or Paid"
// @Param overdue query bool false "Only invoices past their due date with a balance"
// @Param from query string false "Invoice date from (YYYY-MM-DD)"
// @Param to query string false "Invoice date to (YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice,meta=PagMeta} "Invoices"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	base, ok := parseListFilter(c)
	if !ok {
		return
	}
	filter := domain.InvoiceFilter{ListFilter: base, Status: domain.InvoiceStatus(c.Query("status"))}
	if overdue, _ := strconv.ParseBool(c.Query("overdue")); overdue {
		now := today()
		filter.OverdueAt = &now
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: base.Offset, Limit: base.Limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Approve handles POST /api/v1/invoices/:id/approve
// @Summary Approve a draft invoice
// @Description The estimation moves to Invoiced
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice approved"
// @Failure 409 {object} ErrorResponseBody "Already approved"
// @Security BearerAuth
// @Router /invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Approve(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Reconcile handles POST /api/v1/invoices/:id/reconcile
// @Summary Recompute paid amount, balance and status
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Reconciled invoice"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/reconcile [post]
func (h *InvoiceHandler) Reconcile(c *gin.Context) {
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Reconcile(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// ListPayments handles GET /api/v1/invoices/:id/payments
// @Summary List payments of an invoice
// @Tags payments
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=[]domain.PaymentLog} "Payments"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, payments)
}

// RecordPayment handles POST /api/v1/invoices/:id/payments
// @Summary Record a payment
// @Description Confirmed immediately unless pending is set; overpayment clamps the balance at zero
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Param request body service.RecordPaymentInput true "Payment"
// @Success 201 {object} Response{data=service.PaymentResult} "Payment recorded"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "invoice")
	if !ok {
		return
	}

	var input service.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.paymentService.Record(c.Request.Context(), id, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// ConfirmPayment handles POST /api/v1/payments/:id/confirm
// @Summary Confirm a pending payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID (UUID)"
// @Success 200 {object} Response{data=service.PaymentResult} "Payment confirmed"
// @Failure 404 {object} ErrorResponseBody "Payment not found"
// @Failure 409 {object} ErrorResponseBody "Already confirmed"
// @Security BearerAuth
// @Router /payments/{id}/confirm [post]
func (h *InvoiceHandler) ConfirmPayment(c *gin.Context) {
	id, ok := parseID(c, "payment")
	if !ok {
		return
	}

	result, err := h.paymentService.Confirm(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
