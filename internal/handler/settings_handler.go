package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// SettingsHandler handles numbering and tax settings.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles GET /api/v1/settings
// @Summary Current settings
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=domain.Settings} "Settings"
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Load(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, settings)
}

// UpdateTax handles PUT /api/v1/settings/tax
// @Summary Update tax settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body service.UpdateTaxInput true "GST percentage and default terms"
// @Success 200 {object} Response{data=domain.TaxSettings} "Tax settings"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /settings/tax [put]
func (h *SettingsHandler) UpdateTax(c *gin.Context) {
	var input service.UpdateTaxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tax, err := h.settingsService.UpdateTax(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tax)
}

// UpdateNumbering handles PUT /api/v1/settings/numbering/:kind
// @Summary Update document numbering
// @Description The next number can only move forward
// @Tags settings
// @Accept json
// @Produce json
// @Param kind path string true "lead, estimation or invoice"
// @Param request body service.UpdateNumberingInput true "Numbering settings"
// @Success 200 {object} Response{data=domain.NumberingSettings} "Numbering settings"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Security BearerAuth
// @Router /settings/numbering/{kind} [put]
func (h *SettingsHandler) UpdateNumbering(c *gin.Context) {
	var input service.UpdateNumberingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ns, err := h.settingsService.UpdateNumbering(c.Request.Context(), domain.NumberKind(c.Param("kind")), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ns)
}
