package leave

import "time"

// LeaveType is a tenant's catalog entry.
type LeaveType struct {
	ID               string
	CompanyID        string
	Name             string
	AffectsPay       bool
	RequiresDocument bool
	DeductsVacation  bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReturned Status = "returned"
)

type LeaveRequest struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	LeaveTypeID string
	// StartDate and EndDate are inclusive civil dates.
	StartDate    time.Time
	EndDate      time.Time
	BusinessDays int
	Reason       string
	DocumentRef  *string
	Status       Status
	// ApproverEmployeeID is the approver resolved at submission.
	ApproverEmployeeID string
	DecidedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Join
	EmployeeName  string
	LeaveTypeName string
}

// Period is the vacation period a request draws from.
func (r LeaveRequest) Period() int {
	return r.StartDate.Year()
}

// Covers reports whether date lies within the request.
func (r LeaveRequest) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}

type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionReturn   Action = "return"
	ActionWithdraw Action = "withdraw"
)

// ApprovalRecord is one entry of a request's history. Records are only
// appended, never changed or removed.
type ApprovalRecord struct {
	ID              string
	CompanyID       string
	LeaveRequestID  string
	ActorUserID     string
	ActorEmployeeID *string
	Action          Action
	Comment         string
	CreatedAt       time.Time
}

type VacationBalance struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	Period       int
	AssignedDays int
	TakenDays    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (b VacationBalance) Available() int {
	return b.AssignedDays - b.TakenDays
}
