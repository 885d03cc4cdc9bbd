package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
)

type EmployeeResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	OrgUnitID        *string   `json:"org_unit_id"`
	EmployeeCode     string    `json:"employee_code"`
	NationalID       string    `json:"national_id"`
	FullName         string    `json:"full_name"`
	Email            *string   `json:"email"`
	ShiftStart       string    `json:"shift_start"`
	ShiftEnd         string    `json:"shift_end"`
	WorkingDays      []int     `json:"working_days"`
	ToleranceMinutes *int      `json:"tolerance_minutes"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		OrgUnitID:        e.OrgUnitID,
		EmployeeCode:     e.EmployeeCode,
		NationalID:       e.NationalID,
		FullName:         e.FullName,
		Email:            e.Email,
		ShiftStart:       e.ShiftStart.String(),
		ShiftEnd:         e.ShiftEnd.String(),
		WorkingDays:      e.WorkingDays.ISO(),
		ToleranceMinutes: e.ToleranceMinutes,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

type CreateEmployeeRequest struct {
	OrgUnitID        *string `json:"org_unit_id"`
	EmployeeCode     string  `json:"employee_code"`
	NationalID       string  `json:"national_id"`
	FullName         string  `json:"full_name"`
	Email            *string `json:"email"`
	ShiftStart       string  `json:"shift_start"`
	ShiftEnd         string  `json:"shift_end"`
	WorkingDays      []int   `json:"working_days"`
	ToleranceMinutes *int    `json:"tolerance_minutes"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code must be 1-32 letters, digits or '-'")
	}
	r.NationalID = strings.TrimSpace(r.NationalID)
	if r.NationalID == "" {
		errs.Add("national_id", "national_id is required")
	}
	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.OrgUnitID != nil && !validator.IsValidUUID(*r.OrgUnitID) {
		errs.Add("org_unit_id", "org_unit_id must be a valid UUID")
	}
	validateShift(&errs, r.ShiftStart, r.ShiftEnd)
	if r.WorkingDays != nil {
		if _, err := workcal.WeekdaySetFromISO(r.WorkingDays); err != nil || len(r.WorkingDays) == 0 {
			errs.Add("working_days", "working_days must list ISO weekdays 1-7")
		}
	}
	if r.ToleranceMinutes != nil && (*r.ToleranceMinutes < 0 || *r.ToleranceMinutes > 240) {
		errs.Add("tolerance_minutes", "tolerance_minutes must be between 0 and 240")
	}

	return errs.Err()
}

// ToEmployee builds the entity; call Validate first.
func (r CreateEmployeeRequest) ToEmployee(companyID string) Employee {
	start, _ := workcal.ParseClockTime(r.ShiftStart)
	end, _ := workcal.ParseClockTime(r.ShiftEnd)
	days := workcal.Workweek
	if r.WorkingDays != nil {
		days, _ = workcal.WeekdaySetFromISO(r.WorkingDays)
	}
	return Employee{
		CompanyID:        companyID,
		OrgUnitID:        r.OrgUnitID,
		EmployeeCode:     r.EmployeeCode,
		NationalID:       r.NationalID,
		FullName:         strings.TrimSpace(r.FullName),
		Email:            r.Email,
		ShiftStart:       start,
		ShiftEnd:         end,
		WorkingDays:      days,
		ToleranceMinutes: r.ToleranceMinutes,
		IsActive:         true,
	}
}

type UpdateEmployeeRequest struct {
	OrgUnitID        *string `json:"org_unit_id,omitempty"`
	ClearOrgUnit     bool    `json:"clear_org_unit,omitempty"`
	FullName         *string `json:"full_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	ShiftStart       *string `json:"shift_start,omitempty"`
	ShiftEnd         *string `json:"shift_end,omitempty"`
	WorkingDays      []int   `json:"working_days,omitempty"`
	ToleranceMinutes *int    `json:"tolerance_minutes,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OrgUnitID != nil && !validator.IsValidUUID(*r.OrgUnitID) {
		errs.Add("org_unit_id", "org_unit_id must be a valid UUID")
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name cannot be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.ShiftStart != nil {
		if _, err := workcal.ParseClockTime(*r.ShiftStart); err != nil {
			errs.Add("shift_start", "shift_start must be HH:MM")
		}
	}
	if r.ShiftEnd != nil {
		if _, err := workcal.ParseClockTime(*r.ShiftEnd); err != nil {
			errs.Add("shift_end", "shift_end must be HH:MM")
		}
	}
	if r.WorkingDays != nil {
		if _, err := workcal.WeekdaySetFromISO(r.WorkingDays); err != nil || len(r.WorkingDays) == 0 {
			errs.Add("working_days", "working_days must list ISO weekdays 1-7")
		}
	}
	if r.ToleranceMinutes != nil && (*r.ToleranceMinutes < 0 || *r.ToleranceMinutes > 240) {
		errs.Add("tolerance_minutes", "tolerance_minutes must be between 0 and 240")
	}

	return errs.Err()
}

// Apply copies the requested changes onto e; call Validate first.
func (r UpdateEmployeeRequest) Apply(e Employee) (Employee, error) {
	if r.ClearOrgUnit {
		e.OrgUnitID = nil
	} else if r.OrgUnitID != nil {
		e.OrgUnitID = r.OrgUnitID
	}
	if r.FullName != nil {
		e.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Email != nil {
		e.Email = r.Email
	}
	if r.ShiftStart != nil {
		e.ShiftStart, _ = workcal.ParseClockTime(*r.ShiftStart)
	}
	if r.ShiftEnd != nil {
		e.ShiftEnd, _ = workcal.ParseClockTime(*r.ShiftEnd)
	}
	if r.WorkingDays != nil {
		e.WorkingDays, _ = workcal.WeekdaySetFromISO(r.WorkingDays)
	}
	if r.ToleranceMinutes != nil {
		e.ToleranceMinutes = r.ToleranceMinutes
	}
	if r.IsActive != nil {
		e.IsActive = *r.IsActive
	}
	if e.ShiftEnd <= e.ShiftStart {
		return e, ErrShiftEndsBeforeStart
	}
	return e, nil
}

type EmployeeFilter struct {
	Search     string
	OrgUnitID  *string
	ActiveOnly bool
	Page       int
	Limit      int
}

func (f *EmployeeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func validateShift(errs *validator.ValidationErrors, startStr, endStr string) {
	start, err := workcal.ParseClockTime(startStr)
	if err != nil {
		errs.Add("shift_start", "shift_start must be HH:MM")
	}
	end, err2 := workcal.ParseClockTime(endStr)
	if err2 != nil {
		errs.Add("shift_end", "shift_end must be HH:MM")
	}
	if err == nil && err2 == nil && end <= start {
		errs.Add("shift_end", "shift_end must be after shift_start")
	}
}
