package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/export"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
)

// ========================================
// PAYROLL
// ========================================

// PayrollRow is one employee's week, hours rounded to two decimals.
type PayrollRow struct {
	UserID        string          `json:"user_id"`
	EmployeeID    string          `json:"employee_id"`
	Name          string          `json:"name"`
	Department    string          `json:"department"`
	WeekStart     string          `json:"week_start"`
	WeekEnd       string          `json:"week_end"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	BreakHours    decimal.Decimal `json:"break_hours"`
}

// HoursFromMinutes converts minutes to hours rounded half away from zero to 2 places.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

var PayrollHeaders = []string{
	"Employee ID", "Name", "Department", "Week Start", "Week End",
	"Regular Hours", "Overtime Hours", "Total Hours", "Break Hours",
}

func (r PayrollRow) Record() []string {
	return []string{
		r.EmployeeID, r.Name, r.Department, r.WeekStart, r.WeekEnd,
		r.RegularHours.String(), r.OvertimeHours.String(), r.TotalHours.String(), r.BreakHours.String(),
	}
}

type PayrollExportRequest struct {
	WeekStart string `json:"week_start"`
	Format    string `json:"format"`

	Day          time.Time     `json:"-"`
	ParsedFormat export.Format `json:"-"`
}

func (r *PayrollExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WeekStart != "" {
		if d, ok := validator.IsValidDate(r.WeekStart); !ok {
			errs.Add("week_start", "week_start must be in YYYY-MM-DD format")
		} else {
			r.Day = d
		}
	}
	f, err := export.ParseFormat(strings.ToLower(r.Format))
	if err != nil {
		errs.Add("format", "format must be csv or xlsx")
	}
	r.ParsedFormat = f

	return errs.OrNil()
}

// ========================================
// SUMMARY
// ========================================

type SummaryRequest struct {
	Period string `json:"period"`
	Date   string `json:"date"`

	Day time.Time `json:"-"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Period == "" {
		r.Period = string(PeriodDaily)
	}
	if Period(r.Period) != PeriodDaily && Period(r.Period) != PeriodWeekly {
		errs.Add("period", "period must be daily or weekly")
	}
	if r.Date != "" {
		if d, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		} else {
			r.Day = d
		}
	}

	return errs.OrNil()
}

type EmployeeHours struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	Department string  `json:"department,omitempty"`
	WorkHours  float64 `json:"work_hours"`
	BreakHours float64 `json:"break_hours"`
}

type SummaryResponse struct {
	Period    string          `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Employees []EmployeeHours `json:"employees"`
}

type WeeklySummary struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	WorkHours     float64 `json:"work_hours"`
	BreakHours    float64 `json:"break_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TargetHours   float64 `json:"target_hours"`
	MeetsTarget   bool    `json:"meets_target"`
	HoursShort    float64 `json:"hours_short"`
	IsLocked      bool    `json:"is_locked"`
}

type WeeklySummaryResponse struct {
	WeekStart string          `json:"week_start"`
	WeekEnd   string          `json:"week_end"`
	Summaries []WeeklySummary `json:"summaries"`
}

// ========================================
// CSV EXPORTS
// ========================================

type ExportKind string

const (
	ExportEmployees  ExportKind = "employees"
	ExportTimesheets ExportKind = "timesheets"
)

type CSVExportRequest struct {
	Type string `json:"type"`
	Date string `json:"date"`

	Day time.Time `json:"-"`
}

func (r *CSVExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if ExportKind(r.Type) != ExportEmployees && ExportKind(r.Type) != ExportTimesheets {
		errs.Add("type", "type must be employees or timesheets")
	}
	if r.Date != "" {
		if d, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		} else {
			r.Day = d
		}
	}

	return errs.OrNil()
}
