package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/report"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	settingsService "github.com/cmlabs-hris/timekeeper-go/internal/service/settings"
	weeklockService "github.com/cmlabs-hris/timekeeper-go/internal/service/weeklock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
)

type fixture struct {
	store    *memory.Store
	svc      report.ReportService
	ledger   weeklock.Ledger
	employee user.User
	admin    user.User
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	emp, err := store.Users().Create(ctx, user.User{
		Name: "Ana", EmployeeCode: strPtr("EMP001"), Department: strPtr("Kitchen"),
		Role: user.RoleEmployee, IsActive: true,
	})
	require.NoError(t, err)
	adm, err := store.Users().Create(ctx, user.User{Name: "Boss", Role: user.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	recorder := auditService.NewAuditService(store.ActivityLogs())
	settingsSvc := settingsService.NewSettingsService(store.Settings(), config.SettingsDefaults{
		WorkingHoursPerDay: 8, OvertimeThresholdHours: 40, OvertimeMultiplier: 1.5, WeeklyTargetHours: 48,
	}, recorder)
	ledger := weeklockService.NewLedger(store.WeekApprovals())

	svc := NewReportService(store.TimeEntries(), store.Users(), settingsSvc, ledger, recorder, time.UTC)
	svc.(*ReportServiceImpl).now = func() time.Time { return now }

	f := &fixture{store: store, svc: svc, ledger: ledger, employee: emp, admin: adm}
	// Mon-Fri 09:00-19:00 with a one hour lunch: 9h worked per day, 45h total.
	for i := 0; i < 5; i++ {
		e, err := store.TimeEntries().Create(ctx, timeentry.TimeEntry{UserID: emp.ID, Day: monday.AddDate(0, 0, i)})
		require.NoError(t, err)
		e.ClockIn = timeentry.ClockOn(e, "09:00")
		e.LunchStart = timeentry.ClockOn(e, "12:00")
		e.LunchEnd = timeentry.ClockOn(e, "13:00")
		e.ClockOut = timeentry.ClockOn(e, "19:00")
		require.NoError(t, store.TimeEntries().Update(ctx, e))
	}
	return f
}

func TestPayroll_SplitsAtWeeklyThreshold(t *testing.T) {
	f := newFixture(t)

	rows, err := f.svc.Payroll(context.Background(), f.admin.Actor(), monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "EMP001", r.EmployeeID)
	assert.Equal(t, "Kitchen", r.Department)
	assert.Equal(t, "2024-03-04", r.WeekStart)
	assert.Equal(t, "2024-03-10", r.WeekEnd)
	assert.True(t, r.RegularHours.Equal(decimal.NewFromInt(40)), r.RegularHours.String())
	assert.True(t, r.OvertimeHours.Equal(decimal.NewFromInt(5)), r.OvertimeHours.String())
	assert.True(t, r.TotalHours.Equal(decimal.NewFromInt(45)), r.TotalHours.String())
	assert.True(t, r.BreakHours.Equal(decimal.NewFromInt(5)), r.BreakHours.String())

	_, err = f.svc.Payroll(context.Background(), f.employee.Actor(), monday)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestExportPayroll_CSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file, err := f.svc.ExportPayroll(ctx, f.admin.Actor(), report.PayrollExportRequest{WeekStart: "2024-03-06", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "payroll_2024-03-04_2024-03-10.csv", file.Filename)

	buf := new(bytes.Buffer)
	require.NoError(t, file.Write(buf))
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, report.PayrollHeaders, records[0])
	assert.Equal(t, []string{"EMP001", "Ana", "Kitchen", "2024-03-04", "2024-03-10", "40", "5", "45", "5"}, records[1])

	logs, err := f.store.ActivityLogs().ListLatest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "EXPORT_CSV", logs[0].Action)
}

func TestExportPayroll_XLSX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file, err := f.svc.ExportPayroll(ctx, f.admin.Actor(), report.PayrollExportRequest{Format: "XLSX"})
	require.NoError(t, err)
	assert.Equal(t, "payroll_2024-03-04_2024-03-10.xlsx", file.Filename)

	buf := new(bytes.Buffer)
	require.NoError(t, file.Write(buf))
	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	name, err := book.GetCellValue("Payroll", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)

	logs, err := f.store.ActivityLogs().ListLatest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "EXPORT_XLSX", logs[0].Action)

	_, err = f.svc.ExportPayroll(ctx, f.admin.Actor(), report.PayrollExportRequest{Format: "pdf"})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	daily, err := f.svc.Summary(ctx, f.admin.Actor(), report.SummaryRequest{Date: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, "daily", daily.Period)
	assert.Equal(t, "2024-03-04", daily.EndDate)
	require.Len(t, daily.Employees, 1)
	assert.Equal(t, 9.0, daily.Employees[0].WorkHours)
	assert.Equal(t, 1.0, daily.Employees[0].BreakHours)

	weekly, err := f.svc.Summary(ctx, f.admin.Actor(), report.SummaryRequest{Period: "weekly", Date: "2024-03-06"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", weekly.StartDate)
	assert.Equal(t, "2024-03-10", weekly.EndDate)
	assert.Equal(t, 45.0, weekly.Employees[0].WorkHours)

	_, err = f.svc.Summary(ctx, f.admin.Actor(), report.SummaryRequest{Period: "monthly"})
	assert.Error(t, err)
}

func TestWeeklySummaries_TargetAndLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.Lock(ctx, f.employee.ID, monday, f.admin.ID, now)
	require.NoError(t, err)

	resp, err := f.svc.WeeklySummaries(ctx, f.admin.Actor(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", resp.WeekStart)
	require.Len(t, resp.Summaries, 2)

	byName := map[string]report.WeeklySummary{}
	for _, s := range resp.Summaries {
		byName[s.Name] = s
	}

	ana := byName["Ana"]
	assert.Equal(t, 45.0, ana.WorkHours)
	assert.Equal(t, 5.0, ana.OvertimeHours)
	assert.False(t, ana.MeetsTarget)
	assert.Equal(t, 3.0, ana.HoursShort)
	assert.True(t, ana.IsLocked)

	boss := byName["Boss"]
	assert.Equal(t, 48.0, boss.HoursShort)
	assert.False(t, boss.IsLocked)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file, err := f.svc.ExportCSV(ctx, f.admin.Actor(), report.CSVExportRequest{Type: "employees"})
	require.NoError(t, err)
	assert.Equal(t, "employees_2024-03-08.csv", file.Filename)
	require.Len(t, file.Table.Rows, 1)
	assert.Equal(t, []string{"EMP001", "Ana", "", "Kitchen", "Active"}, file.Table.Rows[0][:5])

	file, err = f.svc.ExportCSV(ctx, f.admin.Actor(), report.CSVExportRequest{Type: "timesheets", Date: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, "timesheets_2024-03-04.csv", file.Filename)
	require.Len(t, file.Table.Rows, 1)
	assert.Equal(t, []string{"2024-03-04", "Ana", "09:00", "19:00", "9.0", "60", "pending"}, file.Table.Rows[0])

	_, err = f.svc.ExportCSV(ctx, f.admin.Actor(), report.CSVExportRequest{Type: "payslips"})
	assert.Error(t, err)
}
