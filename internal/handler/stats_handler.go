package handler

import (
	"github.com/gin-gonic/gin"

	"quotecrm/internal/domain"
	"quotecrm/internal/service"
)

// StatsHandler handles the dashboard endpoint.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /api/v1/dashboard
// @Summary Dashboard totals
// @Description Invoiced, paid and outstanding amounts, counts and lead conversion for a period
// @Tags dashboard
// @Produce json
// @Param period query string false "this_month, previous_month, this_quarter, previous_quarter, this_year, previous_year or custom" default(this_month)
// @Param from query string false "Custom period start (YYYY-MM-DD)"
// @Param to query string false "Custom period end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=domain.DashboardStats} "Dashboard statistics"
// @Failure 400 {object} ErrorResponseBody "Invalid period"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context(), service.DashboardInput{
		Period: c.DefaultQuery("period", domain.PeriodThisMonth),
		From:   c.Query("from"),
		To:     c.Query("to"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
