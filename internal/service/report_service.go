package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"quotecrm/internal/domain"
	"quotecrm/internal/export"
	"quotecrm/internal/pdf"
	"quotecrm/internal/port"
)

// DefaultReportLimit is the page size of the JSON report when none is given.
const DefaultReportLimit = 20

// ReportQuery is the DTO for the lead report filters. Dates are inclusive.
type ReportQuery struct {
	From       string
	To         string
	ClientID   *uuid.UUID
	LeadStatus string
	Offset     int
	Limit      int
}

// ReportService provides the CRM lead report and its exports.
type ReportService interface {
	// LeadReport returns one page of report rows and the total row count.
	LeadReport(ctx context.Context, query ReportQuery) ([]domain.ReportRow, int, error)
	WriteCSV(ctx context.Context, w io.Writer, query ReportQuery) error
	WriteExcel(ctx context.Context, w io.Writer, query ReportQuery) error
	WritePDF(ctx context.Context, w io.Writer, query ReportQuery) error
}

type reportService struct {
	reportRepo  port.ReportRepository
	estimations port.EstimationRepository
	renderer    *pdf.Renderer
}

// NewReportService creates a new ReportService implementation.
func NewReportService(reportRepo port.ReportRepository, estimations port.EstimationRepository, renderer *pdf.Renderer) ReportService {
	return &reportService{reportRepo: reportRepo, estimations: estimations, renderer: renderer}
}

func (q ReportQuery) filters() (domain.ReportFilters, error) {
	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		return domain.ReportFilters{}, err
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		return domain.ReportFilters{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return domain.ReportFilters{}, domain.NewValidationError("to", "must not be before from")
	}
	status := domain.LeadStatus(q.LeadStatus)
	if status != "" && !domain.ValidLeadStatuses[status] {
		return domain.ReportFilters{}, domain.NewValidationError("lead_status", "unknown lead status")
	}
	return domain.ReportFilters{
		From:       from,
		To:         to,
		ClientID:   q.ClientID,
		LeadStatus: status,
		Offset:     q.Offset,
		Limit:      q.Limit,
	}, nil
}

// rows loads the report with projected lead statuses. The lead status is
// not stored, so a status filter is applied after projection and paging
// then happens here.
func (s *reportService) rows(ctx context.Context, f domain.ReportFilters) ([]domain.ReportRow, int, error) {
	if f.LeadStatus == "" {
		rows, total, err := s.reportRepo.LeadReport(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		if err := s.project(ctx, rows); err != nil {
			return nil, 0, err
		}
		return rows, total, nil
	}

	offset, limit := f.Offset, f.Limit
	f.Offset, f.Limit = 0, 0
	all, _, err := s.reportRepo.LeadReport(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if err := s.project(ctx, all); err != nil {
		return nil, 0, err
	}
	matched := all[:0]
	for i := range all {
		if all[i].LeadStatus == f.LeadStatus {
			matched = append(matched, all[i])
		}
	}
	return paginate(matched, offset, limit), len(matched), nil
}

func (s *reportService) project(ctx context.Context, rows []domain.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].LeadID
	}
	history, err := s.estimations.StatusHistory(ctx, ids)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].LeadStatus = domain.ProjectLeadStatus(history[rows[i].LeadID])
	}
	return nil
}

func (s *reportService) LeadReport(ctx context.Context, query ReportQuery) ([]domain.ReportRow, int, error) {
	f, err := query.filters()
	if err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 {
		f.Limit = DefaultReportLimit
	}
	return s.rows(ctx, f)
}

// exportRows loads every matching row, ignoring paging.
func (s *reportService) exportRows(ctx context.Context, query ReportQuery) ([]domain.ReportRow, error) {
	f, err := query.filters()
	if err != nil {
		return nil, err
	}
	f.Offset, f.Limit = 0, 0
	rows, _, err := s.rows(ctx, f)
	return rows, err
}

func (s *reportService) WriteCSV(ctx context.Context, w io.Writer, query ReportQuery) error {
	rows, err := s.exportRows(ctx, query)
	if err != nil {
		return err
	}
	if _, err := w.Write(export.BOM); err != nil {
		return err
	}
	cw := export.NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteRows(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (s *reportService) WriteExcel(ctx context.Context, w io.Writer, query ReportQuery) error {
	rows, err := s.exportRows(ctx, query)
	if err != nil {
		return err
	}
	return export.WriteExcel(w, rows)
}

func (s *reportService) WritePDF(ctx context.Context, w io.Writer, query ReportQuery) error {
	rows, err := s.exportRows(ctx, query)
	if err != nil {
		return err
	}
	return s.renderer.Report(w, rows, time.Now())
}
