package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
)

// MaxClockSkew is how far in the future an event may be stamped.
const MaxClockSkew = 5 * time.Minute

// MaxRangeDays bounds list queries over events and workdays.
const MaxRangeDays = 92

type AttendanceServiceImpl struct {
	tx           database.Transactor
	eventRepo    attendance.EventRepository
	workdayRepo  attendance.WorkdayRepository
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
	calendar     attendance.LeaveCalendar
	now          func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	eventRepo attendance.EventRepository,
	workdayRepo attendance.WorkdayRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	calendar attendance.LeaveCalendar,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		tx:           tx,
		eventRepo:    eventRepo,
		workdayRepo:  workdayRepo,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		calendar:     calendar,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Tests pin it.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// RecordEvent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordEvent(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req attendance.RecordEventRequest) (attendance.RecordEventResponse, event.Events, error) {
	var events event.Events
	if err := req.Validate(); err != nil {
		return attendance.RecordEventResponse{}, events, err
	}

	employeeID, err := a.targetEmployee(actor, req.EmployeeID)
	if err != nil {
		return attendance.RecordEventResponse{}, events, err
	}

	tenantCompany, err := a.companyRepo.Get(ctx, scope)
	if err != nil {
		return attendance.RecordEventResponse{}, events, err
	}
	emp, err := a.employeeRepo.GetByID(ctx, scope, employeeID)
	if err != nil {
		return attendance.RecordEventResponse{}, events, err
	}
	if !emp.IsActive {
		return attendance.RecordEventResponse{}, events, employee.ErrEmployeeInactive
	}

	now := a.now().UTC()
	occurredAt := req.Time(now).UTC()
	if occurredAt.After(now.Add(MaxClockSkew)) {
		return attendance.RecordEventResponse{}, events, attendance.ErrEventInFuture
	}

	if fence, ok := tenantCompany.Geofence(); ok && req.Latitude != nil && req.Longitude != nil {
		p := geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if !fence.Contains(p) {
			slog.Debug("attendance event outside geofence",
				"employee_id", emp.ID,
				"distance_meters", geo.DistanceMeters(fence.Center, p),
				"radius_meters", fence.RadiusMeters,
			)
			return attendance.RecordEventResponse{}, events, attendance.ErrOutsideGeofence
		}
	}

	recordedBy := actor.UserID
	var (
		stored  attendance.Event
		workday *attendance.Workday
	)
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = a.eventRepo.Append(ctx, scope, attendance.Event{
			CompanyID:        scope.CompanyID(),
			EmployeeID:       emp.ID,
			Kind:             attendance.EventKind(req.Kind),
			OccurredAt:       occurredAt,
			Latitude:         req.Latitude,
			Longitude:        req.Longitude,
			RecordedByUserID: &recordedBy,
		})
		if err != nil {
			return err
		}

		date := workcal.DateOf(occurredAt, tenantCompany.Location())
		w, recomputed, ok, err := a.recompute(ctx, scope, tenantCompany, emp, date, now)
		if err != nil {
			return err
		}
		if ok {
			workday = &w
			events.Merge(recomputed)
		}
		return nil
	})
	if err != nil {
		return attendance.RecordEventResponse{}, event.Events{}, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "attendance.record", "attendance_event", stored.ID, map[string]any{
		"employee_id": emp.ID,
		"kind":        string(stored.Kind),
		"occurred_at": stored.OccurredAt.Format(time.RFC3339),
	}))

	resp := attendance.RecordEventResponse{Event: attendance.NewEventResponse(stored)}
	if workday != nil {
		w := attendance.NewWorkdayResponse(*workday)
		resp.Workday = &w
	}
	return resp, events, nil
}

// ListEvents implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEvents(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter attendance.EventFilter) ([]attendance.EventResponse, error) {
	employeeID, err := a.visibleEmployee(actor, filter.EmployeeID)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = employeeID

	if !filter.To.After(filter.From) || filter.To.Sub(filter.From) > MaxRangeDays*24*time.Hour {
		return nil, attendance.ErrRangeTooLong
	}

	found, err := a.eventRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}

	responses := make([]attendance.EventResponse, 0, len(found))
	for _, e := range found {
		responses = append(responses, attendance.NewEventResponse(e))
	}
	return responses, nil
}

// GetWorkday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWorkday(ctx context.Context, actor tenant.Actor, scope tenant.Scope, employeeID string, date time.Time) (attendance.WorkdayResponse, error) {
	if !user.Can(actor, user.PermissionAttendanceViewAll) && !actor.IsEmployee(employeeID) {
		return attendance.WorkdayResponse{}, user.ErrInsufficientPermissions
	}

	w, err := a.workdayRepo.Get(ctx, scope, employeeID, workcal.Date(date.Year(), date.Month(), date.Day()))
	if err != nil {
		return attendance.WorkdayResponse{}, err
	}
	return attendance.NewWorkdayResponse(w), nil
}

// ListWorkdays implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListWorkdays(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter attendance.WorkdayFilter) (attendance.ListWorkdayResponse, error) {
	employeeID, err := a.visibleEmployee(actor, filter.EmployeeID)
	if err != nil {
		return attendance.ListWorkdayResponse{}, err
	}
	filter.EmployeeID = employeeID
	filter.Normalize()

	if filter.To.Before(filter.From) || workcal.AddDays(filter.From, MaxRangeDays).Before(filter.To) {
		return attendance.ListWorkdayResponse{}, attendance.ErrRangeTooLong
	}

	found, total, err := a.workdayRepo.List(ctx, scope, filter)
	if err != nil {
		return attendance.ListWorkdayResponse{}, fmt.Errorf("failed to list workdays: %w", err)
	}

	responses := make([]attendance.WorkdayResponse, 0, len(found))
	for _, w := range found {
		responses = append(responses, attendance.NewWorkdayResponse(w))
	}
	return attendance.ListWorkdayResponse{
		Workdays:   responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Recompute implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Recompute(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req attendance.RecomputeRequest) (attendance.WorkdayResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionAttendanceManage) {
		return attendance.WorkdayResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return attendance.WorkdayResponse{}, events, err
	}

	tenantCompany, err := a.companyRepo.Get(ctx, scope)
	if err != nil {
		return attendance.WorkdayResponse{}, events, err
	}
	emp, err := a.employeeRepo.GetByID(ctx, scope, req.EmployeeID)
	if err != nil {
		return attendance.WorkdayResponse{}, events, err
	}

	w, recomputed, ok, err := a.recompute(ctx, scope, tenantCompany, emp, req.ParsedDate(), a.now().UTC())
	if err != nil {
		return attendance.WorkdayResponse{}, events, err
	}
	if !ok {
		return attendance.WorkdayResponse{}, events, attendance.ErrDateNotComputable
	}

	events.Merge(recomputed)
	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "attendance.recompute", "workday", w.ID, map[string]any{
		"employee_id": emp.ID,
		"date":        req.Date,
		"status":      string(w.Status),
	}))
	return attendance.NewWorkdayResponse(w), events, nil
}

// RecomputeDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecomputeDay(ctx context.Context, actor tenant.Actor, scope tenant.Scope, date time.Time) (attendance.RecomputeDayResult, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionAttendanceManage) {
		return attendance.RecomputeDayResult{}, events, user.ErrInsufficientPermissions
	}

	date = workcal.Date(date.Year(), date.Month(), date.Day())
	result := attendance.RecomputeDayResult{Date: date.Format("2006-01-02")}

	tenantCompany, err := a.companyRepo.Get(ctx, scope)
	if err != nil {
		return result, events, err
	}
	employees, err := a.employeeRepo.ListActive(ctx, scope)
	if err != nil {
		return result, events, fmt.Errorf("failed to list active employees: %w", err)
	}

	now := a.now().UTC()
	for _, emp := range employees {
		_, recomputed, ok, err := a.recompute(ctx, scope, tenantCompany, emp, date, now)
		if err != nil {
			return result, events, fmt.Errorf("recompute employee %s: %w", emp.ID, err)
		}
		if !ok {
			result.Skipped++
			continue
		}
		result.Computed++
		events.Merge(recomputed)
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "attendance.recompute_day", "company", scope.CompanyID(), map[string]any{
		"date":     result.Date,
		"computed": result.Computed,
		"skipped":  result.Skipped,
	}))
	return result, events, nil
}

// RecomputeEmployeeRange recomputes the workdays of one employee over the
// inclusive range [from, to], stopping at the tenant's current date. Leave
// approvals call it so days classified earlier become excused.
func (a *AttendanceServiceImpl) RecomputeEmployeeRange(ctx context.Context, scope tenant.Scope, employeeID string, from, to time.Time) (event.Events, error) {
	var events event.Events

	tenantCompany, err := a.companyRepo.Get(ctx, scope)
	if err != nil {
		return events, err
	}
	emp, err := a.employeeRepo.GetByID(ctx, scope, employeeID)
	if err != nil {
		return events, err
	}

	now := a.now().UTC()
	from = workcal.Date(from.Year(), from.Month(), from.Day())
	to = workcal.Date(to.Year(), to.Month(), to.Day())
	if today := workcal.DateOf(now, tenantCompany.Location()); to.After(today) {
		to = today
	}

	for date := from; !date.After(to); date = workcal.AddDays(date, 1) {
		// A day off is classified the same with or without leave.
		if !emp.WorksOn(date.Weekday()) {
			continue
		}
		_, recomputed, _, err := a.recompute(ctx, scope, tenantCompany, emp, date, now)
		if err != nil {
			return events, fmt.Errorf("recompute %s: %w", date.Format("2006-01-02"), err)
		}
		events.Merge(recomputed)
	}
	return events, nil
}

// recompute classifies one employee date and stores it. ok is false when
// nothing was stored. The returned events hold the alert for a transition
// into late or absent.
func (a *AttendanceServiceImpl) recompute(ctx context.Context, scope tenant.Scope, c company.Company, emp employee.Employee, date time.Time, now time.Time) (attendance.Workday, event.Events, bool, error) {
	var events event.Events
	loc := c.Location()

	start, end := workcal.DayBounds(date, loc)
	dayEvents, err := a.eventRepo.ListForEmployee(ctx, scope, emp.ID, start, end)
	if err != nil {
		return attendance.Workday{}, events, false, fmt.Errorf("failed to load attendance events: %w", err)
	}

	excused, err := a.calendar.HasApprovedLeave(ctx, scope, emp.ID, date)
	if err != nil {
		return attendance.Workday{}, events, false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	w, ok := attendance.Classify(attendance.ClassifyInput{
		CompanyID:        scope.CompanyID(),
		EmployeeID:       emp.ID,
		Date:             date,
		Location:         loc,
		Events:           dayEvents,
		ShiftStart:       emp.ShiftStart,
		ToleranceMinutes: emp.Tolerance(c.ToleranceMinutes),
		WorkingDays:      emp.WorkingDays,
		Excused:          excused,
		Now:              now,
	})
	if !ok {
		return attendance.Workday{}, events, false, nil
	}

	stored, previous, err := a.workdayRepo.Upsert(ctx, scope, w)
	if err != nil {
		return attendance.Workday{}, events, false, err
	}

	if stored.Status.Alerting() && stored.Status != previous {
		events.Notify(alertFor(stored))
	}
	return stored, events, true, nil
}

func alertFor(w attendance.Workday) event.Notification {
	day := w.WorkDate.Format("2006-01-02")
	n := event.Notification{
		CompanyID:           w.CompanyID,
		RecipientEmployeeID: w.EmployeeID,
		Category:            event.CategoryAttendance,
		Link:                "/attendance/workdays/" + w.EmployeeID + "/" + day,
	}
	switch w.Status {
	case attendance.StatusLate:
		n.Title = "Late arrival"
		n.Message = fmt.Sprintf("You checked in %d minutes after your shift start on %s.", w.MinutesLate, day)
	case attendance.StatusAbsent:
		n.Title = "Absence recorded"
		n.Message = fmt.Sprintf("No attendance was recorded for %s.", day)
	}
	return n
}

// targetEmployee picks whose event is being recorded. Recording for someone
// else needs attendance.manage.
func (a *AttendanceServiceImpl) targetEmployee(actor tenant.Actor, requested *string) (string, error) {
	if requested == nil || actor.IsEmployee(*requested) {
		if actor.EmployeeID == nil {
			return "", employee.ErrNoEmployeeProfile
		}
		if !user.Can(actor, user.PermissionAttendanceRecord) {
			return "", user.ErrInsufficientPermissions
		}
		return *actor.EmployeeID, nil
	}
	if !user.Can(actor, user.PermissionAttendanceManage) {
		return "", user.ErrInsufficientPermissions
	}
	return *requested, nil
}

// visibleEmployee narrows a list filter to what the actor may read.
func (a *AttendanceServiceImpl) visibleEmployee(actor tenant.Actor, requested *string) (*string, error) {
	if user.Can(actor, user.PermissionAttendanceViewAll) {
		return requested, nil
	}
	if actor.EmployeeID == nil {
		return nil, employee.ErrNoEmployeeProfile
	}
	if requested != nil && *requested != *actor.EmployeeID {
		return nil, user.ErrInsufficientPermissions
	}
	return actor.EmployeeID, nil
}
