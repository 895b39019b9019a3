package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/export"
)

type ReportService interface {
	// Payroll computes the weekly payroll rows for active employees.
	Payroll(ctx context.Context, actor user.Actor, day time.Time) ([]PayrollRow, error)
	ExportPayroll(ctx context.Context, actor user.Actor, req PayrollExportRequest) (export.File, error)
	Summary(ctx context.Context, actor user.Actor, req SummaryRequest) (SummaryResponse, error)
	WeeklySummaries(ctx context.Context, actor user.Actor, day time.Time) (WeeklySummaryResponse, error)
	ExportCSV(ctx context.Context, actor user.Actor, req CSVExportRequest) (export.File, error)
}
