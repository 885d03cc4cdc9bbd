package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	dispatcher      event.Dispatcher
}

func NewEmployeeHandler(employeeService employee.EmployeeService, dispatcher event.Dispatcher) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		dispatcher:      dispatcher,
	}
}

// List handles GET /employees
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	filter := employee.EmployeeFilter{
		Search:     r.URL.Query().Get("search"),
		OrgUnitID:  getStringQueryParam(r, "org_unit_id"),
		ActiveOnly: getBoolQueryParam(r, "active_only", false),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}

	result, err := h.employeeService.List(r.Context(), actor, scope, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Employees, response.NewPagination(result.Page, result.Limit, result.TotalCount))
}

// Get handles GET /employees/{id}
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	result, err := h.employeeService.Get(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create handles POST /employees
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := h.employeeService.Create(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.Created(w, "Employee created successfully", result)
}

// Update handles PUT /employees/{id}
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := h.employeeService.Update(r.Context(), actor, scope, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// Deactivate handles DELETE /employees/{id}
func (h *employeeHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	events, err := h.employeeService.Deactivate(r.Context(), actor, scope, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.SuccessWithMessage(w, "Employee deactivated successfully", nil)
}
