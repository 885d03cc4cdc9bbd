package orgunit

import "time"

// OrgUnit is a node of the reporting tree. Its manager approves the leave of
// the employees assigned to it.
type OrgUnit struct {
	ID                string
	CompanyID         string
	ParentID          *string
	Name              string
	ManagerEmployeeID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
