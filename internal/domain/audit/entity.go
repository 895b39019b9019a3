package audit

import "time"

// Action codes recorded in the activity log.
const (
	ActionLogin                 = "LOGIN"
	ActionLogout                = "LOGOUT"
	ActionAdminBootstrap        = "ADMIN_BOOTSTRAP"
	ActionEntryEdited           = "ENTRY_EDITED"
	ActionEntryReset            = "ENTRY_RESET"
	ActionWeekReset             = "WEEK_RESET"
	ActionWeekLocked            = "WEEK_LOCKED"
	ActionTimesheetApproved     = "TIMESHEET_APPROVED"
	ActionTimesheetRejected     = "TIMESHEET_REJECTED"
	ActionCorrectionRequested   = "CORRECTION_REQUESTED"
	ActionCorrectionReviewed    = "CORRECTION_REVIEWED"
	ActionLeaveRequested        = "LEAVE_REQUESTED"
	ActionLeaveReviewed         = "LEAVE_REVIEWED"
	ActionShiftNotesUpdated     = "SHIFT_NOTES_UPDATED"
	ActionEmployeeAdded         = "EMPLOYEE_ADDED"
	ActionEmployeeUpdated       = "EMPLOYEE_UPDATED"
	ActionEmployeeToggled       = "EMPLOYEE_TOGGLED"
	ActionEmployeeDeleted       = "EMPLOYEE_DELETED"
	ActionRosterUpdated         = "ROSTER_UPDATED"
	ActionOvertimeRulesUpdated  = "OVERTIME_RULES_UPDATED"
	ActionExportCSV             = "EXPORT_CSV"
	ActionExportXLSX            = "EXPORT_XLSX"
	ActionForgotPasswordRequest = "FORGOT_PASSWORD_REQUEST"
	ActionPasswordReset         = "PASSWORD_RESET"
	ActionPasswordChanged       = "PASSWORD_CHANGED"
	ActionProfileUpdated        = "PROFILE_UPDATED"
	ActionSystemInit            = "SYSTEM_INIT"
)

type ActivityLog struct {
	ID        string
	UserID    *string
	Action    string
	Details   string
	CreatedAt time.Time

	// Joined fields
	UserName *string
}
