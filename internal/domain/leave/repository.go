package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, scope tenant.Scope, id string) (LeaveType, error)
	List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]LeaveType, error)
	Create(ctx context.Context, scope tenant.Scope, lt LeaveType) (LeaveType, error)
	Update(ctx context.Context, scope tenant.Scope, lt LeaveType) (LeaveType, error)
}

type LeaveRequestRepository interface {
	GetByID(ctx context.Context, scope tenant.Scope, id string) (LeaveRequest, error)
	List(ctx context.Context, scope tenant.Scope, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	Create(ctx context.Context, scope tenant.Scope, req LeaveRequest) (LeaveRequest, error)
	// UpdatePending writes the editable fields only while the stored status is
	// still pending and returns ErrNotPending otherwise.
	UpdatePending(ctx context.Context, scope tenant.Scope, req LeaveRequest) (LeaveRequest, error)
	// DeletePending withdraws the request only while it is still pending. The
	// row is soft deleted so its approval history stays intact.
	DeletePending(ctx context.Context, scope tenant.Scope, id string) error
	// Decide moves a pending request to status and returns ErrAlreadyDecided
	// when another decision got there first.
	Decide(ctx context.Context, scope tenant.Scope, id string, status Status, decidedAt time.Time) (LeaveRequest, error)
	// HasOverlap reports pending or approved requests of the employee that
	// intersect [start, end], ignoring excludeID.
	HasOverlap(ctx context.Context, scope tenant.Scope, employeeID string, start, end time.Time, excludeID string) (bool, error)
	HasApprovedLeave(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (bool, error)
}

type ApprovalRecordRepository interface {
	Append(ctx context.Context, scope tenant.Scope, rec ApprovalRecord) (ApprovalRecord, error)
	ListByRequest(ctx context.Context, scope tenant.Scope, requestID string) ([]ApprovalRecord, error)
}

type VacationBalanceRepository interface {
	Get(ctx context.Context, scope tenant.Scope, employeeID string, period int) (VacationBalance, error)
	List(ctx context.Context, scope tenant.Scope, period int) ([]VacationBalance, error)
	// SetAssigned creates or updates the assigned days of (employee, period).
	SetAssigned(ctx context.Context, scope tenant.Scope, employeeID string, period, assignedDays int) (VacationBalance, error)
	// Consume adds days to taken only if taken + days <= assigned, and
	// returns ErrInsufficientBalance otherwise.
	Consume(ctx context.Context, scope tenant.Scope, employeeID string, period, days int) (VacationBalance, error)
}
