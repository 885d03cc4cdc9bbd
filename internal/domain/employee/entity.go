package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
)

type Employee struct {
	ID           string
	CompanyID    string
	OrgUnitID    *string
	EmployeeCode string
	// NationalID is the government identity number (cédula).
	NationalID       string
	FullName         string
	Email            *string
	ShiftStart       workcal.ClockTime
	ShiftEnd         workcal.ClockTime
	WorkingDays      workcal.WeekdaySet
	ToleranceMinutes *int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Tolerance returns the employee's own tolerance, or the company default.
func (e Employee) Tolerance(companyDefault int) int {
	if e.ToleranceMinutes != nil {
		return *e.ToleranceMinutes
	}
	return companyDefault
}

func (e Employee) WorksOn(d time.Weekday) bool {
	return e.WorkingDays.Has(d)
}
