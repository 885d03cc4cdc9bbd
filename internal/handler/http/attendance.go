package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	RecordEvent(w http.ResponseWriter, r *http.Request)
	ListEvents(w http.ResponseWriter, r *http.Request)
	ListWorkdays(w http.ResponseWriter, r *http.Request)
	GetWorkday(w http.ResponseWriter, r *http.Request)
	Recompute(w http.ResponseWriter, r *http.Request)
	RecomputeDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	dispatcher        event.Dispatcher
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, dispatcher event.Dispatcher) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		dispatcher:        dispatcher,
	}
}

// RecordEvent handles POST /attendance/events
func (h *attendanceHandlerImpl) RecordEvent(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req attendance.RecordEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := h.attendanceService.RecordEvent(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.Created(w, "Attendance event recorded", result)
}

// ListEvents handles GET /attendance/events?from=&to= with RFC3339 bounds
func (h *attendanceHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	from, okFrom := validator.IsValidDateTime(r.URL.Query().Get("from"))
	if !okFrom {
		errs.Add("from", "from must be an RFC3339 timestamp")
	}
	to, okTo := validator.IsValidDateTime(r.URL.Query().Get("to"))
	if !okTo {
		errs.Add("to", "to must be an RFC3339 timestamp")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListEvents(r.Context(), actor, scope, attendance.EventFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		From:       from,
		To:         to,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListWorkdays handles GET /attendance/workdays?from=&to=
func (h *attendanceHandlerImpl) ListWorkdays(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	from, to, err := dateRangeQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := attendance.WorkdayFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		From:       from,
		To:         to,
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 50),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := attendance.Status(status)
		filter.Status = &s
	}

	result, err := h.attendanceService.ListWorkdays(r.Context(), actor, scope, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Workdays, response.NewPagination(result.Page, result.Limit, result.TotalCount))
}

// GetWorkday handles GET /attendance/workdays/{employeeID}/{date}
func (h *attendanceHandlerImpl) GetWorkday(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	date, valid := validator.IsValidDate(chi.URLParam(r, "date"))
	if !valid {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	result, err := h.attendanceService.GetWorkday(r.Context(), actor, scope, chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Recompute handles POST /attendance/recompute
func (h *attendanceHandlerImpl) Recompute(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	var req attendance.RecomputeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, events, err := h.attendanceService.Recompute(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.Success(w, result)
}

// RecomputeDay handles POST /attendance/recompute/{date}
func (h *attendanceHandlerImpl) RecomputeDay(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	date, valid := validator.IsValidDate(chi.URLParam(r, "date"))
	if !valid {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	result, events, err := h.attendanceService.RecomputeDay(r.Context(), actor, scope, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	dispatch(r.Context(), h.dispatcher, events)

	response.Success(w, result)
}
