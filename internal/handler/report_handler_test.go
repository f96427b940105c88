package handler_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

func TestReportHandler_LeadReport(t *testing.T) {
	reports := new(mocks.MockReportService)
	h := handler.NewReportHandler(reports)
	clientID := uuid.New()

	reports.On("LeadReport", mock.Anything, mock.MatchedBy(func(q service.ReportQuery) bool {
		return q.From == "2025-04-01" && q.To == "2025-06-30" && q.LeadStatus == "Won" &&
			q.ClientID != nil && *q.ClientID == clientID && q.Limit == 0
	})).Return([]domain.ReportRow{{LeadNo: "LEAD-0001"}}, 1, nil)

	c, w := newContext(t, http.MethodGet,
		"/api/v1/reports?from=2025-04-01&to=2025-06-30&lead_status=Won&client_id="+clientID.String(), nil)
	h.LeadReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, service.DefaultReportLimit, resp.Meta.Limit)
}

func TestReportHandler_LeadReport_BadQuery(t *testing.T) {
	tests := []string{"client_id=nope", "offset=-1", "limit=0", "limit=1000"}
	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			reports := new(mocks.MockReportService)
			h := handler.NewReportHandler(reports)

			c, w := newContext(t, http.MethodGet, "/api/v1/reports?"+query, nil)
			h.LeadReport(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			reports.AssertNotCalled(t, "LeadReport", mock.Anything, mock.Anything)
		})
	}
}

func TestReportHandler_Exports(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		fileName    string
		contentType string
	}{
		{"csv", "WriteCSV", "CRM_Report.csv", "text/csv; charset=utf-8"},
		{"excel", "WriteExcel", "CRM_Complete_Report.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"pdf", "WritePDF", "Filtered_CRM_Report.pdf", "application/pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := new(mocks.MockReportService)
			h := handler.NewReportHandler(reports)
			reports.On(tt.method, mock.Anything, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					_, _ = args.Get(1).(io.Writer).Write([]byte("report-bytes"))
				}).Return(nil)

			c, w := newContext(t, http.MethodGet, "/api/v1/reports/export/"+tt.name, nil)
			switch tt.name {
			case "csv":
				h.ExportCSV(c)
			case "excel":
				h.ExportExcel(c)
			case "pdf":
				h.ExportPDF(c)
			}

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tt.fileName+`"`, w.Header().Get("Content-Disposition"))
			assert.Equal(t, "report-bytes", w.Body.String())
		})
	}
}

func TestReportHandler_Export_ServiceError(t *testing.T) {
	reports := new(mocks.MockReportService)
	h := handler.NewReportHandler(reports)
	reports.On("WriteExcel", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.NewValidationError("to", "must not be before from"))

	c, w := newContext(t, http.MethodGet, "/api/v1/reports/export/excel?from=2025-06-30&to=2025-06-01", nil)
	h.ExportExcel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
