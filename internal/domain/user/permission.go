package user

type Permission string

const (
	// Self service
	PermissionPunch          Permission = "entry.punch"
	PermissionEntryViewOwn   Permission = "entry.view_own"
	PermissionCorrectionOwn  Permission = "correction.request"
	PermissionLeaveOwn       Permission = "leave.request"
	PermissionRosterViewOwn  Permission = "roster.view_own"
	PermissionHandoverPost   Permission = "handover.post"
	PermissionProfileEditOwn Permission = "profile.edit_own"

	// Administration
	PermissionEntryEdit         Permission = "entry.edit"
	PermissionTimesheetApprove  Permission = "timesheet.approve"
	PermissionCorrectionApprove Permission = "correction.approve"
	PermissionLeaveApprove      Permission = "leave.approve"
	PermissionRosterManage      Permission = "roster.manage"
	PermissionEmployeeManage    Permission = "employee.manage"
	PermissionSettingsManage    Permission = "settings.manage"
	PermissionReportsView       Permission = "reports.view"
	PermissionReportsExport     Permission = "reports.export"
	PermissionAuditView         Permission = "audit.view"
)

var employeePermissions = []Permission{
	PermissionPunch,
	PermissionEntryViewOwn,
	PermissionCorrectionOwn,
	PermissionLeaveOwn,
	PermissionRosterViewOwn,
	PermissionHandoverPost,
	PermissionProfileEditOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleEmployee: employeePermissions,
	RoleAdmin: append(append([]Permission{}, employeePermissions...),
		PermissionEntryEdit,
		PermissionTimesheetApprove,
		PermissionCorrectionApprove,
		PermissionLeaveApprove,
		PermissionRosterManage,
		PermissionEmployeeManage,
		PermissionSettingsManage,
		PermissionReportsView,
		PermissionReportsExport,
		PermissionAuditView,
	),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
