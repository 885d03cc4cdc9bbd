package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

// ApproverResolver finds the employee who decides requests of employeeID.
type ApproverResolver interface {
	Approver(ctx context.Context, scope tenant.Scope, employeeID string) (string, error)
}

// WorkdayRecomputer refreshes stored workdays once approved leave changes
// which of them are excused.
type WorkdayRecomputer interface {
	RecomputeEmployeeRange(ctx context.Context, scope tenant.Scope, employeeID string, from, to time.Time) (event.Events, error)
}

type LeaveServiceImpl struct {
	tx           database.Transactor
	typeRepo     leave.LeaveTypeRepository
	requestRepo  leave.LeaveRequestRepository
	recordRepo   leave.ApprovalRecordRepository
	balanceRepo  leave.VacationBalanceRepository
	employeeRepo employee.EmployeeRepository
	approvers    ApproverResolver
	workdays     WorkdayRecomputer
}

func NewLeaveService(
	tx database.Transactor,
	typeRepo leave.LeaveTypeRepository,
	requestRepo leave.LeaveRequestRepository,
	recordRepo leave.ApprovalRecordRepository,
	balanceRepo leave.VacationBalanceRepository,
	employeeRepo employee.EmployeeRepository,
	approvers ApproverResolver,
	workdays WorkdayRecomputer,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:           tx,
		typeRepo:     typeRepo,
		requestRepo:  requestRepo,
		recordRepo:   recordRepo,
		balanceRepo:  balanceRepo,
		employeeRepo: employeeRepo,
		approvers:    approvers,
		workdays:     workdays,
	}
}

// ===== Leave types =====

// CreateType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateType(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionLeaveManage) {
		return leave.LeaveTypeResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, events, err
	}

	created, err := l.typeRepo.Create(ctx, scope, leave.LeaveType{
		CompanyID:        scope.CompanyID(),
		Name:             req.Name,
		AffectsPay:       req.AffectsPay,
		RequiresDocument: req.RequiresDocument,
		DeductsVacation:  req.DeductsVacation,
		IsActive:         true,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "leave_type.create", "leave_type", created.ID, map[string]any{
		"name": created.Name,
	}))
	return leave.NewLeaveTypeResponse(created), events, nil
}

// UpdateType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateType(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionLeaveManage) {
		return leave.LeaveTypeResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, events, err
	}

	existing, err := l.typeRepo.GetByID(ctx, scope, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, events, err
	}

	updated, err := l.typeRepo.Update(ctx, scope, req.Apply(existing))
	if err != nil {
		return leave.LeaveTypeResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "leave_type.update", "leave_type", updated.ID, map[string]any{
		"name":      updated.Name,
		"is_active": updated.IsActive,
	}))
	return leave.NewLeaveTypeResponse(updated), events, nil
}

// GetType implements leave.LeaveService.
func (l *LeaveServiceImpl) GetType(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (leave.LeaveTypeResponse, error) {
	lt, err := l.typeRepo.GetByID(ctx, scope, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(lt), nil
}

// ListTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListTypes(ctx context.Context, actor tenant.Actor, scope tenant.Scope, activeOnly bool) ([]leave.LeaveTypeResponse, error) {
	types, err := l.typeRepo.List(ctx, scope, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, leave.NewLeaveTypeResponse(lt))
	}
	return responses, nil
}

// ===== Leave requests =====

// Submit implements leave.LeaveService.
func (l *LeaveServiceImpl) Submit(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, event.Events, error) {
	var events event.Events
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	employeeID, err := l.requester(actor, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}
	emp, err := l.employeeRepo.GetByID(ctx, scope, employeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}
	if !emp.IsActive {
		return leave.LeaveRequestResponse{}, events, employee.ErrEmployeeInactive
	}

	start, end := req.Dates()
	draft := leave.LeaveRequest{
		CompanyID:   scope.CompanyID(),
		EmployeeID:  emp.ID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		DocumentRef: req.DocumentRef,
		Status:      leave.StatusPending,
	}
	draft, err = l.checkRequest(ctx, scope, draft, "")
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	approverID, err := l.approvers.Approver(ctx, scope, emp.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}
	draft.ApproverEmployeeID = approverID

	var created leave.LeaveRequest
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = l.requestRepo.Create(ctx, scope, draft)
		if err != nil {
			return err
		}
		_, err = l.recordRepo.Append(ctx, scope, leave.ApprovalRecord{
			CompanyID:       scope.CompanyID(),
			LeaveRequestID:  created.ID,
			ActorUserID:     actor.UserID,
			ActorEmployeeID: actor.EmployeeID,
			Action:          leave.ActionSubmit,
		})
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	events.Notify(event.Notification{
		CompanyID:           scope.CompanyID(),
		RecipientEmployeeID: created.ApproverEmployeeID,
		Category:            event.CategoryLeave,
		Title:               "Leave request awaiting approval",
		Message: fmt.Sprintf("%s requested %d business day(s) of leave from %s to %s.",
			emp.FullName, created.BusinessDays, created.StartDate.Format("2006-01-02"), created.EndDate.Format("2006-01-02")),
		Link: requestLink(created.ID),
	})
	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "leave_request.submit", "leave_request", created.ID, map[string]any{
		"employee_id":   created.EmployeeID,
		"leave_type_id": created.LeaveTypeID,
		"business_days": created.BusinessDays,
		"approver_id":   created.ApproverEmployeeID,
	}))
	return leave.NewLeaveRequestResponse(created), events, nil
}

// Update implements leave.LeaveService.
func (l *LeaveServiceImpl) Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, event.Events, error) {
	var events event.Events
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	existing, err := l.requestRepo.GetByID(ctx, scope, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}
	if !l.canModify(actor, existing) {
		return leave.LeaveRequestResponse{}, events, leave.ErrNotRequestOwner
	}
	if err := leave.CheckModifiable(existing.Status); err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	changed, err := l.checkRequest(ctx, scope, req.Apply(existing), existing.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	updated, err := l.requestRepo.UpdatePending(ctx, scope, changed)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "leave_request.update", "leave_request", updated.ID, map[string]any{
		"start_date":    updated.StartDate.Format("2006-01-02"),
		"end_date":      updated.EndDate.Format("2006-01-02"),
		"business_days": updated.BusinessDays,
	}))
	return leave.NewLeaveRequestResponse(updated), events, nil
}

// Delete implements leave.LeaveService.
func (l *LeaveServiceImpl) Delete(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (event.Events, error) {
	var events event.Events

	existing, err := l.requestRepo.GetByID(ctx, scope, id)
	if err != nil {
		return events, err
	}
	if !l.canModify(actor, existing) {
		return events, leave.ErrNotRequestOwner
	}
	if err := leave.CheckModifiable(existing.Status); err != nil {
		return events, err
	}

	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.requestRepo.DeletePending(ctx, scope, existing.ID); err != nil {
			return err
		}
		_, err := l.recordRepo.Append(ctx, scope, leave.ApprovalRecord{
			CompanyID:       scope.CompanyID(),
			LeaveRequestID:  existing.ID,
			ActorUserID:     actor.UserID,
			ActorEmployeeID: actor.EmployeeID,
			Action:          leave.ActionWithdraw,
		})
		return err
	})
	if err != nil {
		return events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "leave_request.delete", "leave_request", existing.ID, map[string]any{
		"employee_id": existing.EmployeeID,
	}))
	return events, nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req leave.DecisionRequest) (leave.LeaveRequestResponse, event.Events, error) {
	return l.decide(ctx, actor, scope, id, leave.ActionApprove, req)
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req leave.DecisionRequest) (leave.LeaveRequestResponse, event.Events, error) {
	return l.decide(ctx, actor, scope, id, leave.ActionReject, req)
}

// Return implements leave.LeaveService.
func (l *LeaveServiceImpl) Return(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req leave.DecisionRequest) (leave.LeaveRequestResponse, event.Events, error) {
	return l.decide(ctx, actor, scope, id, leave.ActionReturn, req)
}

// decide applies one transition out of pending. The designated approver is
// resolved again at decision time so a reorganisation hands pending requests
// to the new manager.
func (l *LeaveServiceImpl) decide(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, action leave.Action, req leave.DecisionRequest) (leave.LeaveRequestResponse, event.Events, error) {
	var events event.Events
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	existing, err := l.requestRepo.GetByID(ctx, scope, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}
	to, err := leave.Decide(existing.Status, action)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	approverID, err := l.approvers.Approver(ctx, scope, existing.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}
	if !actor.IsEmployee(approverID) {
		return leave.LeaveRequestResponse{}, events, leave.ErrNotApprover
	}

	lt, err := l.typeRepo.GetByID(ctx, scope, existing.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, events, err
	}

	var decided leave.LeaveRequest
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		decided, err = l.requestRepo.Decide(ctx, scope, existing.ID, to, time.Now().UTC())
		if err != nil {
			return err
		}
		if to == leave.StatusApproved && lt.DeductsVacation && decided.BusinessDays > 0 {
			if _, err := l.balanceRepo.Consume(ctx, scope, decided.EmployeeID, decided.Period(), decided.BusinessDays); err != nil {
				return err
			}
		}
		if to == leave.StatusApproved {
			refreshed, err := l.workdays.RecomputeEmployeeRange(ctx, scope, decided.EmployeeID, decided.StartDate, decided.EndDate)
			if err != nil {
				return fmt.Errorf("failed to refresh workdays: %w", err)
			}
			events.Merge(refreshed)
		}
		_, err = l.recordRepo.Append(ctx, scope, leave.ApprovalRecord{
			CompanyID:       scope.CompanyID(),
			LeaveRequestID:  decided.ID,
			ActorUserID:     actor.UserID,
			ActorEmployeeID: actor.EmployeeID,
			Action:          action,
			Comment:         req.Comment,
		})
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, event.Events{}, err
	}

	message := fmt.Sprintf("Your leave request from %s to %s was %s.",
		decided.StartDate.Format("2006-01-02"), decided.EndDate.Format("2006-01-02"), decided.Status)
	if req.Comment != "" {
		message += " Comment: " + req.Comment
	}
	events.Notify(event.Notification{
		CompanyID:           scope.CompanyID(),
		RecipientEmployeeID: decided.EmployeeID,
		Category:            event.CategoryLeave,
		Title:               "Leave request " + string(decided.Status),
		Message:             message,
		Link:                requestLink(decided.ID),
	})
	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "leave_request."+string(action), "leave_request", decided.ID, map[string]any{
		"from":    string(existing.Status),
		"to":      string(decided.Status),
		"comment": req.Comment,
	}))
	return leave.NewLeaveRequestResponse(decided), events, nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (leave.LeaveRequestResponse, error) {
	req, err := l.visibleRequest(ctx, actor, scope, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(req), nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if !user.Can(actor, user.PermissionLeaveViewAll) {
		if actor.EmployeeID == nil {
			return leave.ListLeaveRequestResponse{}, employee.ErrNoEmployeeProfile
		}
		// Without view_all an actor sees their own requests, or the ones
		// waiting on them when filtering by approver.
		if filter.ApproverID != nil && *filter.ApproverID == *actor.EmployeeID {
			filter.EmployeeID = nil
		} else {
			filter.ApproverID = nil
			filter.EmployeeID = actor.EmployeeID
		}
	}
	filter.Normalize()

	requests, total, err := l.requestRepo.List(ctx, scope, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return leave.ListLeaveRequestResponse{
		Requests:   responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// History implements leave.LeaveService.
func (l *LeaveServiceImpl) History(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) ([]leave.ApprovalRecordResponse, error) {
	req, err := l.visibleRequest(ctx, actor, scope, id)
	if err != nil {
		return nil, err
	}

	records, err := l.recordRepo.ListByRequest(ctx, scope, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}

	responses := make([]leave.ApprovalRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, leave.NewApprovalRecordResponse(r))
	}
	return responses, nil
}

// ===== Vacation balances =====

// SetBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) SetBalance(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req leave.SetBalanceRequest) (leave.BalanceResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionLeaveManage) {
		return leave.BalanceResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, events, err
	}
	if _, err := l.employeeRepo.GetByID(ctx, scope, req.EmployeeID); err != nil {
		return leave.BalanceResponse{}, events, err
	}

	balance, err := l.balanceRepo.SetAssigned(ctx, scope, req.EmployeeID, req.Period, req.AssignedDays)
	if err != nil {
		return leave.BalanceResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "vacation_balance.set", "vacation_balance", balance.ID, map[string]any{
		"employee_id":   balance.EmployeeID,
		"period":        balance.Period,
		"assigned_days": balance.AssignedDays,
	}))
	return leave.NewBalanceResponse(balance), events, nil
}

// GetBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalance(ctx context.Context, actor tenant.Actor, scope tenant.Scope, employeeID string, period int) (leave.BalanceResponse, error) {
	if !user.Can(actor, user.PermissionLeaveViewAll) && !actor.IsEmployee(employeeID) {
		return leave.BalanceResponse{}, user.ErrInsufficientPermissions
	}

	balance, err := l.balanceRepo.Get(ctx, scope, employeeID, period)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.NewBalanceResponse(balance), nil
}

// ListBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, actor tenant.Actor, scope tenant.Scope, period int) ([]leave.BalanceResponse, error) {
	if !user.Can(actor, user.PermissionLeaveViewAll) {
		return nil, user.ErrInsufficientPermissions
	}

	balances, err := l.balanceRepo.List(ctx, scope, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacation balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b))
	}
	return responses, nil
}

// checkRequest validates r against its leave type, the calendar and the
// employee's other requests, and fills in BusinessDays.
func (l *LeaveServiceImpl) checkRequest(ctx context.Context, scope tenant.Scope, r leave.LeaveRequest, excludeID string) (leave.LeaveRequest, error) {
	lt, err := l.typeRepo.GetByID(ctx, scope, r.LeaveTypeID)
	if err != nil {
		return r, err
	}
	if !lt.IsActive {
		return r, leave.ErrLeaveTypeInactive
	}
	if lt.RequiresDocument && r.DocumentRef == nil {
		return r, leave.ErrDocumentRequired
	}

	days, err := leave.BusinessDays(r.StartDate, r.EndDate)
	if err != nil {
		return r, err
	}
	if leave.CalendarDays(r.StartDate, r.EndDate) > leave.MaxRequestDays {
		return r, leave.ErrRangeTooLong
	}
	if days == 0 {
		return r, leave.ErrNoBusinessDays
	}
	r.BusinessDays = days

	overlap, err := l.requestRepo.HasOverlap(ctx, scope, r.EmployeeID, r.StartDate, r.EndDate, excludeID)
	if err != nil {
		return r, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if overlap {
		return r, leave.ErrOverlappingRequest
	}

	if lt.DeductsVacation {
		balance, err := l.balanceRepo.Get(ctx, scope, r.EmployeeID, r.Period())
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return r, leave.ErrInsufficientBalance
		}
		if err != nil {
			return r, fmt.Errorf("failed to get vacation balance: %w", err)
		}
		if balance.Available() < days {
			return r, leave.ErrInsufficientBalance
		}
	}
	return r, nil
}

// requester resolves whose request is being filed. Filing for someone else
// needs leave.manage.
func (l *LeaveServiceImpl) requester(actor tenant.Actor, requested *string) (string, error) {
	if requested == nil || actor.IsEmployee(*requested) {
		if actor.EmployeeID == nil {
			return "", employee.ErrNoEmployeeProfile
		}
		if !user.Can(actor, user.PermissionLeaveRequest) {
			return "", user.ErrInsufficientPermissions
		}
		return *actor.EmployeeID, nil
	}
	if !user.Can(actor, user.PermissionLeaveManage) {
		return "", user.ErrInsufficientPermissions
	}
	return *requested, nil
}

func (l *LeaveServiceImpl) canModify(actor tenant.Actor, r leave.LeaveRequest) bool {
	return actor.IsEmployee(r.EmployeeID) || user.Can(actor, user.PermissionLeaveManage)
}

func (l *LeaveServiceImpl) visibleRequest(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (leave.LeaveRequest, error) {
	req, err := l.requestRepo.GetByID(ctx, scope, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if user.Can(actor, user.PermissionLeaveViewAll) || actor.IsEmployee(req.EmployeeID) || actor.IsEmployee(req.ApproverEmployeeID) {
		return req, nil
	}
	return leave.LeaveRequest{}, user.ErrInsufficientPermissions
}

func requestLink(id string) string {
	return "/leave/requests/" + id
}
