// Package fixtures holds the records every new company starts with.
package fixtures

import "github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"

// DefaultLeaveTypes returns the leave catalogue seeded for a new company.
// Owners can rename or deactivate any of them afterwards.
func DefaultLeaveTypes(companyID string) []leave.LeaveType {
	return []leave.LeaveType{
		{
			CompanyID:       companyID,
			Name:            "Vacation",
			DeductsVacation: true,
			IsActive:        true,
		},
		{
			CompanyID:        companyID,
			Name:             "Sick Leave",
			RequiresDocument: true,
			IsActive:         true,
		},
		{
			CompanyID:  companyID,
			Name:       "Unpaid Leave",
			AffectsPay: true,
			IsActive:   true,
		},
		{
			CompanyID: companyID,
			Name:      "Bereavement",
			IsActive:  true,
		},
	}
}
