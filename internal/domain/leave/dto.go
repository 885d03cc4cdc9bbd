package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

// ===== Leave types =====

type CreateLeaveTypeRequest struct {
	Name             string `json:"name"`
	AffectsPay       bool   `json:"affects_pay"`
	RequiresDocument bool   `json:"requires_document"`
	DeductsVacation  bool   `json:"deducts_vacation"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	return errs.Err()
}

type UpdateLeaveTypeRequest struct {
	Name             *string `json:"name,omitempty"`
	AffectsPay       *bool   `json:"affects_pay,omitempty"`
	RequiresDocument *bool   `json:"requires_document,omitempty"`
	DeductsVacation  *bool   `json:"deducts_vacation,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" || len(name) > 100 {
			errs.Add("name", "name must be 1-100 characters")
		}
	}

	return errs.Err()
}

func (r UpdateLeaveTypeRequest) Apply(lt LeaveType) LeaveType {
	if r.Name != nil {
		lt.Name = *r.Name
	}
	if r.AffectsPay != nil {
		lt.AffectsPay = *r.AffectsPay
	}
	if r.RequiresDocument != nil {
		lt.RequiresDocument = *r.RequiresDocument
	}
	if r.DeductsVacation != nil {
		lt.DeductsVacation = *r.DeductsVacation
	}
	if r.IsActive != nil {
		lt.IsActive = *r.IsActive
	}
	return lt
}

type LeaveTypeResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	AffectsPay       bool      `json:"affects_pay"`
	RequiresDocument bool      `json:"requires_document"`
	DeductsVacation  bool      `json:"deducts_vacation"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewLeaveTypeResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               lt.ID,
		Name:             lt.Name,
		AffectsPay:       lt.AffectsPay,
		RequiresDocument: lt.RequiresDocument,
		DeductsVacation:  lt.DeductsVacation,
		IsActive:         lt.IsActive,
		CreatedAt:        lt.CreatedAt,
		UpdatedAt:        lt.UpdatedAt,
	}
}

// ===== Leave requests =====

type CreateLeaveRequestRequest struct {
	// EmployeeID defaults to the caller; filing for someone else needs leave.manage.
	EmployeeID  *string `json:"employee_id,omitempty"`
	LeaveTypeID string  `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      string  `json:"reason"`
	DocumentRef *string `json:"document_ref,omitempty"`

	start, end time.Time
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id must be a valid UUID")
	}
	r.start, r.end = validateDates(&errs, r.StartDate, r.EndDate)

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	if r.DocumentRef != nil && validator.IsEmpty(*r.DocumentRef) {
		r.DocumentRef = nil
	}

	return errs.Err()
}

func (r CreateLeaveRequestRequest) Dates() (time.Time, time.Time) {
	return r.start, r.end
}

type UpdateLeaveRequestRequest struct {
	LeaveTypeID *string `json:"leave_type_id,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	DocumentRef *string `json:"document_ref,omitempty"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LeaveTypeID != nil && !validator.IsValidUUID(*r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id must be a valid UUID")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be YYYY-MM-DD")
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be YYYY-MM-DD")
		}
	}
	if r.Reason != nil {
		reason := strings.TrimSpace(*r.Reason)
		r.Reason = &reason
		if reason == "" || len(reason) > 1000 {
			errs.Add("reason", "reason must be 1-1000 characters")
		}
	}

	return errs.Err()
}

// Apply copies the requested changes onto req; call Validate first.
func (r UpdateLeaveRequestRequest) Apply(req LeaveRequest) LeaveRequest {
	if r.LeaveTypeID != nil {
		req.LeaveTypeID = *r.LeaveTypeID
	}
	if r.StartDate != nil {
		req.StartDate, _ = validator.IsValidDate(*r.StartDate)
	}
	if r.EndDate != nil {
		req.EndDate, _ = validator.IsValidDate(*r.EndDate)
	}
	if r.Reason != nil {
		req.Reason = *r.Reason
	}
	if r.DocumentRef != nil {
		if validator.IsEmpty(*r.DocumentRef) {
			req.DocumentRef = nil
		} else {
			req.DocumentRef = r.DocumentRef
		}
	}
	return req
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Comment = strings.TrimSpace(r.Comment)
	if len(r.Comment) > 1000 {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}
	return errs.Err()
}

type LeaveRequestResponse struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employee_id"`
	EmployeeName       string     `json:"employee_name,omitempty"`
	LeaveTypeID        string     `json:"leave_type_id"`
	LeaveTypeName      string     `json:"leave_type_name,omitempty"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	BusinessDays       int        `json:"business_days"`
	Reason             string     `json:"reason"`
	DocumentRef        *string    `json:"document_ref,omitempty"`
	Status             Status     `json:"status"`
	ApproverEmployeeID string     `json:"approver_employee_id"`
	DecidedAt          *time.Time `json:"decided_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		LeaveTypeID:        r.LeaveTypeID,
		LeaveTypeName:      r.LeaveTypeName,
		StartDate:          r.StartDate.Format("2006-01-02"),
		EndDate:            r.EndDate.Format("2006-01-02"),
		BusinessDays:       r.BusinessDays,
		Reason:             r.Reason,
		DocumentRef:        r.DocumentRef,
		Status:             r.Status,
		ApproverEmployeeID: r.ApproverEmployeeID,
		DecidedAt:          r.DecidedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type LeaveRequestFilter struct {
	EmployeeID *string
	ApproverID *string
	Status     *Status
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

func (f *LeaveRequestFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type ListLeaveRequestResponse struct {
	Requests   []LeaveRequestResponse `json:"requests"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
}

type ApprovalRecordResponse struct {
	ID              string    `json:"id"`
	ActorUserID     string    `json:"actor_user_id"`
	ActorEmployeeID *string   `json:"actor_employee_id,omitempty"`
	Action          Action    `json:"action"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewApprovalRecordResponse(a ApprovalRecord) ApprovalRecordResponse {
	return ApprovalRecordResponse{
		ID:              a.ID,
		ActorUserID:     a.ActorUserID,
		ActorEmployeeID: a.ActorEmployeeID,
		Action:          a.Action,
		Comment:         a.Comment,
		CreatedAt:       a.CreatedAt,
	}
}

// ===== Vacation balances =====

type SetBalanceRequest struct {
	EmployeeID   string `json:"employee_id"`
	Period       int    `json:"period"`
	AssignedDays int    `json:"assigned_days"`
}

func (r *SetBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if r.Period < 2000 || r.Period > 2100 {
		errs.Add("period", "period must be a year between 2000 and 2100")
	}
	if r.AssignedDays < 0 || r.AssignedDays > 366 {
		errs.Add("assigned_days", "assigned_days must be between 0 and 366")
	}

	return errs.Err()
}

type BalanceResponse struct {
	EmployeeID    string `json:"employee_id"`
	Period        int    `json:"period"`
	AssignedDays  int    `json:"assigned_days"`
	TakenDays     int    `json:"taken_days"`
	AvailableDays int    `json:"available_days"`
}

func NewBalanceResponse(b VacationBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:    b.EmployeeID,
		Period:        b.Period,
		AssignedDays:  b.AssignedDays,
		TakenDays:     b.TakenDays,
		AvailableDays: b.Available(),
	}
}

func validateDates(errs *validator.ValidationErrors, startStr, endStr string) (time.Time, time.Time) {
	start, okStart := validator.IsValidDate(startStr)
	if !okStart {
		errs.Add("start_date", "start_date must be YYYY-MM-DD")
	}
	end, okEnd := validator.IsValidDate(endStr)
	if !okEnd {
		errs.Add("end_date", "end_date must be YYYY-MM-DD")
	}
	return start, end
}
