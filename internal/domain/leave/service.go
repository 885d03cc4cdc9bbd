package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type LeaveService interface {
	// Types
	CreateType(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req CreateLeaveTypeRequest) (LeaveTypeResponse, event.Events, error)
	UpdateType(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, event.Events, error)
	GetType(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (LeaveTypeResponse, error)
	ListTypes(ctx context.Context, actor tenant.Actor, scope tenant.Scope, activeOnly bool) ([]LeaveTypeResponse, error)

	// Requests
	Submit(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req CreateLeaveRequestRequest) (LeaveRequestResponse, event.Events, error)
	Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, event.Events, error)
	Delete(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (event.Events, error)
	Approve(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req DecisionRequest) (LeaveRequestResponse, event.Events, error)
	Reject(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req DecisionRequest) (LeaveRequestResponse, event.Events, error)
	Return(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req DecisionRequest) (LeaveRequestResponse, event.Events, error)
	Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (LeaveRequestResponse, error)
	List(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	History(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) ([]ApprovalRecordResponse, error)

	// Balances
	SetBalance(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req SetBalanceRequest) (BalanceResponse, event.Events, error)
	GetBalance(ctx context.Context, actor tenant.Actor, scope tenant.Scope, employeeID string, period int) (BalanceResponse, error)
	ListBalances(ctx context.Context, actor tenant.Actor, scope tenant.Scope, period int) ([]BalanceResponse, error)
}
