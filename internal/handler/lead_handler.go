package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// LeadHandler handles lead endpoints.
type LeadHandler struct {
	leadService service.LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadService service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create handles POST /api/v1/leads
// @Summary Create a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param request body service.LeadInput true "Lead details"
// @Success 201 {object} Response{data=domain.Lead} "Lead created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	var input service.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, lead)
}

// List handles GET /api/v1/leads
// @Summary List leads
// @Description Status filters on the status derived from the lead's estimations
// @Tags leads
// @Produce json
// @Param q query string false "Search text"
// @Param client_id query string false "Client ID (UUID)"
// @Param status query string false "Pending, Quoted, Won or Lost"
// @Param from query string false "Lead date from (YYYY-MM-DD)"
// @Param to query string false "Lead date to (YYYY-MM-DD)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Lead,meta=PagMeta} "Leads"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	base, ok := parseListFilter(c)
	if !ok {
		return
	}
	filter := domain.LeadFilter{ListFilter: base, Status: domain.LeadStatus(c.Query("status"))}

	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, leads, PagMeta{Total: total, Offset: base.Offset, Limit: base.Limit})
}

// GetByID handles GET /api/v1/leads/:id
// @Summary Get a lead
// @Tags leads
// @Produce json
// @Param id path string true "Lead ID (UUID)"
// @Success 200 {object} Response{data=domain.Lead} "Lead"
// @Failure 404 {object} ErrorResponseBody "Lead not found"
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "lead")
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lead)
}

// Update handles PUT /api/v1/leads/:id
// @Summary Update a lead
// @Description Won leads cannot be edited
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID (UUID)"
// @Param request body service.LeadInput true "Lead details"
// @Success 200 {object} Response{data=domain.Lead} "Lead updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Lead locked"
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "lead")
	if !ok {
		return
	}

	var input service.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lead)
}
