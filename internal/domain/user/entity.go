package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Platform operator, may act on any company
	RoleOwner      Role = "owner"       // Company owner - full access inside the company
	RoleManager    Role = "manager"     // Reviews attendance and leave of the company
	RoleEmployee   Role = "employee"    // Regular employee
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Global reports whether the role is not bound to a single company.
func (r Role) Global() bool {
	return r == RoleSuperAdmin
}

type User struct {
	ID           string
	CompanyID    *string
	EmployeeID   *string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
