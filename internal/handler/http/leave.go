package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)

	SubmitRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	ReturnRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)

	SetBalance(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	dispatcher   event.Dispatcher
}

func NewLeaveHandler(leaveService leave.LeaveService, dispatcher event.Dispatcher) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		dispatcher:   dispatcher,
	}
}

// ===== Types =====

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := l.leaveService.CreateType(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.Created(w, "Leave type created successfully", result)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req leave.UpdateLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := l.leaveService.UpdateType(r.Context(), actor, scope, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.SuccessWithMessage(w, "Leave type updated successfully", result)
}

// GetType implements LeaveHandler.
func (l *LeaveHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.GetType(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.ListTypes(r.Context(), actor, scope, getBoolQueryParam(r, "active_only", false))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ===== Requests =====

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := l.leaveService.Submit(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.Created(w, "Leave request submitted successfully", result)
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req leave.UpdateLeaveRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := l.leaveService.Update(r.Context(), actor, scope, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.SuccessWithMessage(w, "Leave request updated successfully", result)
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	events, err := l.leaveService.Delete(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.SuccessWithMessage(w, "Leave request withdrawn successfully", nil)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, l.leaveService.Approve, "Leave request approved successfully")
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, l.leaveService.Reject, "Leave request rejected successfully")
}

// ReturnRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ReturnRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, l.leaveService.Return, "Leave request returned successfully")
}

type decisionFunc func(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req leave.DecisionRequest) (leave.LeaveRequestResponse, event.Events, error)

func (l *LeaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, fn decisionFunc, message string) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	// The comment is optional, so an empty body is accepted.
	var req leave.DecisionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := fn(r.Context(), actor, scope, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.SuccessWithMessage(w, message, result)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.Get(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveRequestFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		ApproverID: getStringQueryParam(r, "approver_id"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := leave.Status(status)
		filter.Status = &s
	}

	var errs validator.ValidationErrors
	filter.From = optionalDate(r, "from", &errs)
	filter.To = optionalDate(r, "to", &errs)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.List(r.Context(), actor, scope, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Requests, response.NewPagination(result.Page, result.Limit, result.TotalCount))
}

// History implements LeaveHandler.
func (l *LeaveHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.History(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ===== Balances =====

// SetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) SetBalance(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req leave.SetBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := l.leaveService.SetBalance(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), l.dispatcher, events)

	response.SuccessWithMessage(w, "Vacation balance set successfully", result)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	period, err := strconv.Atoi(chi.URLParam(r, "period"))
	if err != nil {
		response.BadRequest(w, "period must be a year", nil)
		return
	}

	result, err := l.leaveService.GetBalance(r.Context(), actor, scope, chi.URLParam(r, "employeeID"), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	period := getIntQueryParam(r, "period", time.Now().Year())

	result, err := l.leaveService.ListBalances(r.Context(), actor, scope, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func optionalDate(r *http.Request, key string, errs *validator.ValidationErrors) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	d, ok := validator.IsValidDate(val)
	if !ok {
		errs.Add(key, key+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}
