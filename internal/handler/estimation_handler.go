package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// EstimationHandler handles estimation (quotation) endpoints.
type EstimationHandler struct {
	estimationService service.EstimationService
	invoiceService    service.InvoiceService
}

// NewEstimationHandler creates a new EstimationHandler.
func NewEstimationHandler(estimationService service.EstimationService, invoiceService service.InvoiceService) *EstimationHandler {
	return &EstimationHandler{estimationService: estimationService, invoiceService: invoiceService}
}

// Create handles POST /api/v1/estimations
// @Summary Create an estimation
// @Description Totals are stored as submitted; mismatches come back as warnings
// @Tags estimations
// @Accept json
// @Produce json
// @Param request body service.EstimationInput true "Estimation with items"
// @Success 201 {object} Response{data=service.EstimationResult} "Estimation created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Client or lead not found"
// @Security BearerAuth
// @Router /estimations [post]
func (h *EstimationHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input service.EstimationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.estimationService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// List handles GET /api/v1/estimations
// @Summary List estimations
// @Tags estimations
// @Produce json
// @Param q query string false "Search text"
// @Param client_id query string false "Client ID (UUID)"
// @Param lead_id query string false "Lead ID (UUID)"
// @Param status query string false "Pending, Approved, Rejected, Lost or Invoiced"
// @Param follow_up query string false "due: open estimations whose follow-up date has arrived"
// @Param from query string false "Quote date from (YYYY-MM-DD)"
// @Param to query string false "Quote date to (YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Estimation,meta=PagMeta} "Estimations"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /estimations [get]
func (h *EstimationHandler) List(c *gin.Context) {
	base, ok := parseListFilter(c)
	if !ok {
		return
	}
	filter := domain.EstimationFilter{ListFilter: base, Status: domain.EstimationStatus(c.Query("status"))}

	if raw := c.Query("lead_id"); raw != "" {
		leadID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "lead_id: invalid UUID")
			return
		}
		filter.LeadID = &leadID
	}
	switch c.Query("follow_up") {
	case "":
	case "due":
		due := today()
		filter.FollowUpDue = &due
	default:
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "follow_up: only \"due\" is supported")
		return
	}

	estimations, total, err := h.estimationService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, estimations, PagMeta{Total: total, Offset: base.Offset, Limit: base.Limit})
}

// GetByID handles GET /api/v1/estimations/:id
// @Summary Get an estimation
// @Tags estimations
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Success 200 {object} Response{data=domain.Estimation} "Estimation with items"
// @Failure 404 {object} ErrorResponseBody "Estimation not found"
// @Security BearerAuth
// @Router /estimations/{id} [get]
func (h *EstimationHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	est, err := h.estimationService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// Update handles PUT /api/v1/estimations/:id
// @Summary Update an estimation
// @Description Only Pending estimations can be edited; items are replaced as a whole
// @Tags estimations
// @Accept json
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Param request body service.EstimationInput true "Estimation with items"
// @Success 200 {object} Response{data=service.EstimationResult} "Estimation updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Not editable in current status"
// @Security BearerAuth
// @Router /estimations/{id} [put]
func (h *EstimationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	var input service.EstimationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.estimationService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Approve handles POST /api/v1/estimations/:id/approve
// @Summary Approve an estimation
// @Description Records the client's purchase order; accepts an optional PO file
// @Tags estimations
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Param credit_days formData int true "Credit days"
// @Param po_number formData string false "PO number"
// @Param po_date formData string false "PO date (YYYY-MM-DD)"
// @Param po_received_date formData string false "PO received date (YYYY-MM-DD)"
// @Param po_attachment formData file false "PO document (pdf, jpg, png)"
// @Success 200 {object} Response{data=domain.Estimation} "Estimation approved"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /estimations/{id}/approve [post]
func (h *EstimationHandler) Approve(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	input := service.ApproveInput{
		PONumber:       c.PostForm("po_number"),
		PODate:         c.PostForm("po_date"),
		POReceivedDate: c.PostForm("po_received_date"),
		ApprovedBy:     userID,
	}
	if raw := strings.TrimSpace(c.PostForm("credit_days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "credit_days: must be a whole number")
			return
		}
		input.CreditDays = &days
	}

	file, header, err := c.Request.FormFile("po_attachment")
	switch {
	case err == nil:
		defer file.Close()
		input.Attachment = &service.Attachment{File: file, Header: header}
	case err != http.ErrMissingFile && err != http.ErrNotMultipart:
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "po_attachment: "+err.Error())
		return
	}

	est, err := h.estimationService.Approve(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// Reject handles POST /api/v1/estimations/:id/reject
// @Summary Reject an estimation
// @Description Deletes a draft invoice if one exists; an approved invoice blocks the change
// @Tags estimations
// @Accept json
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Param request body ReasonRequest true "Rejection reason"
// @Success 200 {object} Response{data=domain.Estimation} "Estimation rejected"
// @Failure 400 {object} ErrorResponseBody "Reason missing"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /estimations/{id}/reject [post]
func (h *EstimationHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	est, err := h.estimationService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// MarkLost handles POST /api/v1/estimations/:id/lost
// @Summary Mark an estimation lost
// @Tags estimations
// @Accept json
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Param request body ReasonRequest true "Lost reason"
// @Success 200 {object} Response{data=domain.Estimation} "Estimation lost"
// @Failure 400 {object} ErrorResponseBody "Reason missing"
// @Failure 409 {object} ErrorResponseBody "Invalid transition"
// @Security BearerAuth
// @Router /estimations/{id}/lost [post]
func (h *EstimationHandler) MarkLost(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	est, err := h.estimationService.MarkLost(c.Request.Context(), id, req.Reason)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// FollowUp handles POST /api/v1/estimations/:id/follow-up
// @Summary Schedule a follow-up
// @Tags estimations
// @Accept json
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Param request body service.FollowUpInput true "Follow-up date and remarks"
// @Success 200 {object} Response{data=domain.Estimation} "Follow-up saved"
// @Failure 409 {object} ErrorResponseBody "Estimation is closed"
// @Security BearerAuth
// @Router /estimations/{id}/follow-up [post]
func (h *EstimationHandler) FollowUp(c *gin.Context) {
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}

	var input service.FollowUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	est, err := h.estimationService.FollowUp(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, est)
}

// GenerateInvoice handles POST /api/v1/estimations/:id/invoice
// @Summary Generate the invoice for an approved estimation
// @Description With draft=true the invoice stays unapproved and the estimation stays Approved
// @Tags estimations
// @Produce json
// @Param id path string true "Estimation ID (UUID)"
// @Param draft query bool false "Create an unapproved draft"
// @Success 201 {object} Response{data=domain.Invoice} "Invoice created"
// @Failure 409 {object} ErrorResponseBody "Not approved or already invoiced"
// @Security BearerAuth
// @Router /estimations/{id}/invoice [post]
func (h *EstimationHandler) GenerateInvoice(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "estimation")
	if !ok {
		return
	}
	draft, _ := strconv.ParseBool(c.DefaultQuery("draft", "false"))

	inv, err := h.invoiceService.Generate(c.Request.Context(), id, service.GenerateInvoiceInput{
		Draft:     draft,
		CreatedBy: userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}
