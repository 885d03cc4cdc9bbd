package user

import "github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"

type Permission string

const (
	// Leave
	PermissionLeaveRequest Permission = "leave.request"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveManage  Permission = "leave.manage"

	// Attendance
	PermissionAttendanceRecord  Permission = "attendance.record"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Organization
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionOrgUnitManage   Permission = "orgunit.manage"

	// Company
	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyManage Permission = "company.manage"
	PermissionCompanyCreate Permission = "company.create"

	// Reports
	PermissionDashboardView Permission = "dashboard.view"
	PermissionReportExport  Permission = "report.export"

	// Users
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionLeaveRequest,
		PermissionLeaveViewAll,
		PermissionLeaveManage,
		PermissionAttendanceRecord,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionOrgUnitManage,
		PermissionCompanyView,
		PermissionCompanyManage,
		PermissionDashboardView,
		PermissionReportExport,
		PermissionUserManage,
	},
	RoleManager: {
		PermissionLeaveRequest,
		PermissionLeaveViewAll,
		PermissionAttendanceRecord,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionEmployeeViewAll,
		PermissionCompanyView,
		PermissionDashboardView,
		PermissionReportExport,
	},
	RoleEmployee: {
		PermissionLeaveRequest,
		PermissionAttendanceRecord,
		PermissionCompanyView,
	},
}

// HasPermission checks if a role has a specific permission.
// The super admin holds every permission.
func HasPermission(role Role, permission Permission) bool {
	if role == RoleSuperAdmin {
		return true
	}
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Can checks a permission for an actor.
func Can(actor tenant.Actor, permission Permission) bool {
	return HasPermission(Role(actor.Role), permission)
}
