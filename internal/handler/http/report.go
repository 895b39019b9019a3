package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/report"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

type ReportHandler interface {
	// GET /admin/reports/payroll?date=
	GetPayroll(w http.ResponseWriter, r *http.Request)
	// GET /admin/reports/payroll/export?week_start=&format=csv|xlsx
	ExportPayroll(w http.ResponseWriter, r *http.Request)
	// GET /admin/reports/summary?period=daily|weekly&date=
	GetSummary(w http.ResponseWriter, r *http.Request)
	// GET /admin/reports/weekly?date=
	GetWeeklySummaries(w http.ResponseWriter, r *http.Request)
	// GET /admin/reports/export?type=employees|timesheets&date=
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
}

func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		loc:           loc,
	}
}

// GetPayroll handles GET /admin/reports/payroll
func (h *reportHandlerImpl) GetPayroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	day, err := dateQuery(r, "date", h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := h.reportService.Payroll(r.Context(), actor, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rows, &response.Meta{TotalItems: len(rows)})
}

// ExportPayroll handles GET /admin/reports/payroll/export
func (h *reportHandlerImpl) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := report.PayrollExportRequest{
		WeekStart: query.Get("week_start"),
		Format:    query.Get("format"),
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	file, err := h.reportService.ExportPayroll(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file)
}

// GetSummary handles GET /admin/reports/summary
func (h *reportHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := report.SummaryRequest{
		Period: query.Get("period"),
		Date:   query.Get("date"),
	}

	summary, err := h.reportService.Summary(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetWeeklySummaries handles GET /admin/reports/weekly
func (h *reportHandlerImpl) GetWeeklySummaries(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	day, err := dateQuery(r, "date", h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summaries, err := h.reportService.WeeklySummaries(r.Context(), actor, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summaries)
}

// ExportCSV handles GET /admin/reports/export
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := report.CSVExportRequest{
		Type: query.Get("type"),
		Date: query.Get("date"),
	}

	file, err := h.reportService.ExportCSV(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file)
}
