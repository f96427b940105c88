package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotecrm/internal/export"
	"quotecrm/internal/pdf"
	"quotecrm/internal/service"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseReportQuery extracts the report filters from query params.
// Dates are validated by the service so the error carries the field name.
func parseReportQuery(c *gin.Context) (service.ReportQuery, error) {
	query := service.ReportQuery{
		From:       c.Query("from"),
		To:         c.Query("to"),
		LeadStatus: c.Query("lead_status"),
	}

	if cidStr := c.Query("client_id"); cidStr != "" {
		cid, err := uuid.Parse(cidStr)
		if err != nil {
			return query, fmt.Errorf("invalid 'client_id': must be a valid UUID")
		}
		query.ClientID = &cid
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return query, fmt.Errorf("invalid 'offset': must be a non-negative integer")
		}
		query.Offset = offset
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > maxPageLimit {
			return query, fmt.Errorf("invalid 'limit': must be between 1 and %d", maxPageLimit)
		}
		query.Limit = limit
	}

	return query, nil
}

// LeadReport handles GET /api/v1/reports
// @Summary      Lead report
// @Description  One row per lead with its latest estimation, purchase order and invoice
// @Tags         reports
// @Produce      json
// @Param        from query string false "Lead date from (YYYY-MM-DD)"
// @Param        to query string false "Lead date to (YYYY-MM-DD)"
// @Param        client_id query string false "Client ID (UUID)"
// @Param        lead_status query string false "Pending, Quoted, Won or Lost"
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} Response{data=[]domain.ReportRow,meta=PagMeta}
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports [get]
func (h *ReportHandler) LeadReport(c *gin.Context) {
	query, err := parseReportQuery(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rows, total, err := h.reportService.LeadReport(c.Request.Context(), query)
	if err != nil {
		HandleError(c, err)
		return
	}

	limit := query.Limit
	if limit == 0 {
		limit = service.DefaultReportLimit
	}
	RespondPaginated(c, rows, PagMeta{Total: total, Offset: query.Offset, Limit: limit})
}

// ExportCSV handles GET /api/v1/reports/export/csv
// @Summary      Export the lead report as CSV
// @Tags         reports
// @Produce      text/csv
// @Param        from query string false "Lead date from (YYYY-MM-DD)"
// @Param        to query string false "Lead date to (YYYY-MM-DD)"
// @Param        client_id query string false "Client ID (UUID)"
// @Param        lead_status query string false "Pending, Quoted, Won or Lost"
// @Success      200 {file} file "CRM_Report.csv"
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/export/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	h.export(c, contentTypeCSV, export.CSVFileName, h.reportService.WriteCSV)
}

// ExportExcel handles GET /api/v1/reports/export/excel
// @Summary      Export the lead report as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "Lead date from (YYYY-MM-DD)"
// @Param        to query string false "Lead date to (YYYY-MM-DD)"
// @Param        client_id query string false "Client ID (UUID)"
// @Param        lead_status query string false "Pending, Quoted, Won or Lost"
// @Success      200 {file} file "CRM_Complete_Report.xlsx"
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/export/excel [get]
func (h *ReportHandler) ExportExcel(c *gin.Context) {
	h.export(c, contentTypeXLSX, export.ExcelFileName, h.reportService.WriteExcel)
}

// ExportPDF handles GET /api/v1/reports/export/pdf
// @Summary      Export the lead report as a landscape PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        from query string false "Lead date from (YYYY-MM-DD)"
// @Param        to query string false "Lead date to (YYYY-MM-DD)"
// @Param        client_id query string false "Client ID (UUID)"
// @Param        lead_status query string false "Pending, Quoted, Won or Lost"
// @Success      200 {file} file "Filtered_CRM_Report.pdf"
// @Failure      400 {object} ErrorResponseBody
// @Security     BearerAuth
// @Router       /reports/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	h.export(c, contentTypePDF, pdf.ReportFileName, h.reportService.WritePDF)
}

// export renders the whole filtered report into memory first so a failure
// can still be reported as a JSON error.
func (h *ReportHandler) export(c *gin.Context, contentType, fileName string,
	write func(ctx context.Context, w io.Writer, query service.ReportQuery) error) {
	query, err := parseReportQuery(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := write(c.Request.Context(), &buf, query); err != nil {
		HandleError(c, err)
		return
	}

	RespondFile(c, contentType, fileName, buf.Bytes())
}
