package tenant

// Actor is the authenticated caller, passed explicitly through every service
// call that needs to know who is acting.
type Actor struct {
	UserID     string
	Email      string
	EmployeeID *string
	// CompanyID is the employer of a scoped actor. Global actors have none.
	CompanyID *string
	Role      string
	Global    bool
}

// IsEmployee reports whether the actor is the given employee.
func (a Actor) IsEmployee(employeeID string) bool {
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

// System is the actor used by background jobs. It holds super admin rights.
func System() Actor {
	return Actor{UserID: "system", Role: "super_admin", Global: true}
}
