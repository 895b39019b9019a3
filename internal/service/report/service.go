package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/report"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/export"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ReportServiceImpl struct {
	timeentry.TimeEntryRepository
	user.UserRepository
	settings settings.SettingsService
	ledger   weeklock.Ledger
	audit    audit.Recorder
	loc      *time.Location
	now      func() time.Time
}

func NewReportService(
	entries timeentry.TimeEntryRepository,
	users user.UserRepository,
	settingsService settings.SettingsService,
	ledger weeklock.Ledger,
	recorder audit.Recorder,
	loc *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		TimeEntryRepository: entries,
		UserRepository:      users,
		settings:            settingsService,
		ledger:              ledger,
		audit:               recorder,
		loc:                 loc,
		now:                 time.Now,
	}
}

func (s *ReportServiceImpl) today() time.Time {
	return timeentry.DayOf(s.now().In(s.loc))
}

// dayOr returns d as a calendar day, or today when d is zero.
func (s *ReportServiceImpl) dayOr(d time.Time) time.Time {
	if d.IsZero() {
		return s.today()
	}
	return timeentry.DayOf(d)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func hours(minutes int) float64 {
	return report.HoursFromMinutes(minutes).InexactFloat64()
}

// activeEmployees lists active users holding the employee role.
func (s *ReportServiceImpl) activeEmployees(ctx context.Context) ([]user.User, error) {
	role := user.RoleEmployee
	users, err := s.UserRepository.List(ctx, user.UserFilter{Role: &role, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}

// entriesByUser groups entries with a clock-in in [from, to] by user.
func (s *ReportServiceImpl) entriesByUser(ctx context.Context, from, to time.Time) (map[string][]timeentry.TimeEntry, error) {
	entries, err := s.TimeEntryRepository.ListByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	out := make(map[string][]timeentry.TimeEntry)
	for _, e := range entries {
		out[e.UserID] = append(out[e.UserID], e)
	}
	return out, nil
}

func (s *ReportServiceImpl) Payroll(ctx context.Context, actor user.Actor, day time.Time) ([]report.PayrollRow, error) {
	if err := actor.Require(user.PermissionReportsView); err != nil {
		return nil, err
	}
	return s.payroll(ctx, s.dayOr(day))
}

func (s *ReportServiceImpl) payroll(ctx context.Context, day time.Time) ([]report.PayrollRow, error) {
	current, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	monday, sunday := timeentry.WeekRange(day)

	employees, err := s.activeEmployees(ctx)
	if err != nil {
		return nil, err
	}
	byUser, err := s.entriesByUser(ctx, monday, sunday)
	if err != nil {
		return nil, err
	}

	rows := make([]report.PayrollRow, 0, len(employees))
	for _, emp := range employees {
		totals := timeentry.SummarizeWeek(byUser[emp.ID], current.WeeklyThresholdMinutes())
		rows = append(rows, report.PayrollRow{
			UserID:        emp.ID,
			EmployeeID:    deref(emp.EmployeeCode),
			Name:          emp.Name,
			Department:    deref(emp.Department),
			WeekStart:     monday.Format(dateLayout),
			WeekEnd:       sunday.Format(dateLayout),
			RegularHours:  report.HoursFromMinutes(totals.RegularMinutes),
			OvertimeHours: report.HoursFromMinutes(totals.OvertimeMinutes),
			TotalHours:    report.HoursFromMinutes(totals.WorkMinutes),
			BreakHours:    report.HoursFromMinutes(totals.BreakMinutes),
		})
	}
	return rows, nil
}

func (s *ReportServiceImpl) ExportPayroll(ctx context.Context, actor user.Actor, req report.PayrollExportRequest) (export.File, error) {
	if err := actor.Require(user.PermissionReportsExport); err != nil {
		return export.File{}, err
	}
	if err := req.Validate(); err != nil {
		return export.File{}, err
	}

	day := s.dayOr(req.Day)
	rows, err := s.payroll(ctx, day)
	if err != nil {
		return export.File{}, err
	}

	monday, sunday := timeentry.WeekRange(day)
	table := export.Table{Sheet: "Payroll", Headers: report.PayrollHeaders}
	for _, r := range rows {
		table.Rows = append(table.Rows, r.Record())
	}

	action := audit.ActionExportCSV
	if req.ParsedFormat == export.FormatXLSX {
		action = audit.ActionExportXLSX
	}
	period := fmt.Sprintf("%s_%s", monday.Format(dateLayout), sunday.Format(dateLayout))
	s.audit.Record(ctx, actor.UserID, action, fmt.Sprintf("Payroll %s to %s", monday.Format(dateLayout), sunday.Format(dateLayout)))

	return export.File{
		Filename: fmt.Sprintf("payroll_%s.%s", period, req.ParsedFormat),
		Format:   req.ParsedFormat,
		Table:    table,
	}, nil
}

func (s *ReportServiceImpl) Summary(ctx context.Context, actor user.Actor, req report.SummaryRequest) (report.SummaryResponse, error) {
	if err := actor.Require(user.PermissionReportsView); err != nil {
		return report.SummaryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.SummaryResponse{}, err
	}

	from := s.dayOr(req.Day)
	to := from
	if report.Period(req.Period) == report.PeriodWeekly {
		from, to = timeentry.WeekRange(from)
	}

	employees, err := s.activeEmployees(ctx)
	if err != nil {
		return report.SummaryResponse{}, err
	}
	byUser, err := s.entriesByUser(ctx, from, to)
	if err != nil {
		return report.SummaryResponse{}, err
	}

	resp := report.SummaryResponse{
		Period:    req.Period,
		StartDate: from.Format(dateLayout),
		EndDate:   to.Format(dateLayout),
		Employees: make([]report.EmployeeHours, 0, len(employees)),
	}
	for _, emp := range employees {
		totals := timeentry.SummarizeWeek(byUser[emp.ID], 0)
		resp.Employees = append(resp.Employees, report.EmployeeHours{
			UserID:     emp.ID,
			Name:       emp.Name,
			Department: deref(emp.Department),
			WorkHours:  hours(totals.WorkMinutes),
			BreakHours: hours(totals.BreakMinutes),
		})
	}
	return resp, nil
}

// WeeklySummaries covers every account, admins included, for the week
// containing day.
func (s *ReportServiceImpl) WeeklySummaries(ctx context.Context, actor user.Actor, day time.Time) (report.WeeklySummaryResponse, error) {
	if err := actor.Require(user.PermissionReportsView); err != nil {
		return report.WeeklySummaryResponse{}, err
	}

	current, err := s.settings.Current(ctx)
	if err != nil {
		return report.WeeklySummaryResponse{}, err
	}
	monday, sunday := timeentry.WeekRange(s.dayOr(day))

	users, err := s.UserRepository.List(ctx, user.UserFilter{})
	if err != nil {
		return report.WeeklySummaryResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	byUser, err := s.entriesByUser(ctx, monday, sunday)
	if err != nil {
		return report.WeeklySummaryResponse{}, err
	}
	locked, err := s.ledger.LockedUsers(ctx, monday)
	if err != nil {
		return report.WeeklySummaryResponse{}, fmt.Errorf("failed to load week locks: %w", err)
	}

	target := decimal.NewFromFloat(current.WeeklyTargetHours)
	resp := report.WeeklySummaryResponse{
		WeekStart: monday.Format(dateLayout),
		WeekEnd:   sunday.Format(dateLayout),
		Summaries: make([]report.WeeklySummary, 0, len(users)),
	}
	for _, u := range users {
		totals := timeentry.SummarizeWeek(byUser[u.ID], current.WeeklyThresholdMinutes())
		worked := decimal.NewFromInt(int64(totals.WorkMinutes)).Div(decimal.NewFromInt(60))

		summary := report.WeeklySummary{
			UserID:        u.ID,
			Name:          u.Name,
			WorkHours:     hours(totals.WorkMinutes),
			BreakHours:    hours(totals.BreakMinutes),
			OvertimeHours: hours(totals.OvertimeMinutes),
			TargetHours:   current.WeeklyTargetHours,
			MeetsTarget:   worked.GreaterThanOrEqual(target),
			IsLocked:      locked[u.ID],
		}
		if !summary.MeetsTarget {
			summary.HoursShort = target.Sub(worked).Round(2).InexactFloat64()
		}
		resp.Summaries = append(resp.Summaries, summary)
	}
	return resp, nil
}

var (
	employeeHeaders  = []string{"Employee ID", "Name", "Email", "Department", "Status", "Created Date"}
	timesheetHeaders = []string{"Date", "Employee", "Clock In", "Clock Out", "Work Hours", "Break Minutes", "Status"}
)

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}

func (s *ReportServiceImpl) ExportCSV(ctx context.Context, actor user.Actor, req report.CSVExportRequest) (export.File, error) {
	if err := actor.Require(user.PermissionReportsExport); err != nil {
		return export.File{}, err
	}
	if err := req.Validate(); err != nil {
		return export.File{}, err
	}

	switch report.ExportKind(req.Type) {
	case report.ExportEmployees:
		return s.exportEmployees(ctx, actor)
	default:
		return s.exportTimesheets(ctx, actor, s.dayOr(req.Day))
	}
}

func (s *ReportServiceImpl) exportEmployees(ctx context.Context, actor user.Actor) (export.File, error) {
	role := user.RoleEmployee
	employees, err := s.UserRepository.List(ctx, user.UserFilter{Role: &role})
	if err != nil {
		return export.File{}, fmt.Errorf("failed to list employees: %w", err)
	}

	table := export.Table{Sheet: "Employees", Headers: employeeHeaders}
	for _, emp := range employees {
		status := "Inactive"
		if emp.IsActive {
			status = "Active"
		}
		table.Rows = append(table.Rows, []string{
			deref(emp.EmployeeCode),
			emp.Name,
			deref(emp.Email),
			deref(emp.Department),
			status,
			emp.CreatedAt.In(s.loc).Format("2006-01-02 15:04"),
		})
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionExportCSV, fmt.Sprintf("Exported %d employees", len(employees)))
	return export.File{
		Filename: fmt.Sprintf("employees_%s.csv", s.today().Format(dateLayout)),
		Format:   export.FormatCSV,
		Table:    table,
	}, nil
}

func (s *ReportServiceImpl) exportTimesheets(ctx context.Context, actor user.Actor, day time.Time) (export.File, error) {
	entries, err := s.TimeEntryRepository.ListByDay(ctx, day)
	if err != nil {
		return export.File{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	date := day.Format(dateLayout)
	table := export.Table{Sheet: "Timesheets", Headers: timesheetHeaders}
	for _, e := range entries {
		name := e.UserName
		if name == "" {
			name = "Unknown"
		}
		work, brk := timeentry.WorkAndBreakMinutes(e)
		table.Rows = append(table.Rows, []string{
			date,
			name,
			clock(e.ClockIn, s.loc),
			clock(e.ClockOut, s.loc),
			fmt.Sprintf("%.1f", timeentry.Hours(work)),
			fmt.Sprintf("%d", brk),
			string(e.Status),
		})
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionExportCSV, "Exported timesheets for "+date)
	return export.File{
		Filename: fmt.Sprintf("timesheets_%s.csv", date),
		Format:   export.FormatCSV,
		Table:    table,
	}, nil
}
