package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string                          { return &s }
func f64Ptr(f float64) *float64                        { return &f }
func intPtr(i int) *int                                { return &i }
func statusPtr(s attendance.Status) *attendance.Status { return &s }

// Wednesday 14 January 2026.
var workDate = workcal.Date(2026, time.January, 14)

type fixture struct {
	store   *testutil.Store
	svc     *AttendanceServiceImpl
	scope   tenant.Scope
	company company.Company
	clock   time.Time
}

func newFixture(t *testing.T, c company.Company) *fixture {
	t.Helper()
	store := testutil.NewStore()
	created, scope := store.AddCompany(c)

	f := &fixture{store: store, scope: scope, company: created}
	f.svc = NewAttendanceService(
		store.Transactor(),
		store.Events(),
		store.Workdays(),
		store.Employees(),
		store.Companies(),
		store.LeaveRequests(),
	).WithClock(func() time.Time { return f.clock })
	return f
}

func (f *fixture) addEmployee(t *testing.T, scope tenant.Scope, code string) employee.Employee {
	t.Helper()
	e, err := f.store.Employees().Create(context.Background(), scope, employee.Employee{
		EmployeeCode: code,
		NationalID:   "ID-" + code,
		FullName:     "Employee " + code,
		ShiftStart:   workcal.ClockTime(9 * 60),
		ShiftEnd:     workcal.ClockTime(17 * 60),
		WorkingDays:  workcal.Workweek,
		IsActive:     true,
	})
	require.NoError(t, err)
	return e
}

func staff(e employee.Employee) tenant.Actor {
	return tenant.Actor{
		UserID:     "user-" + e.EmployeeCode,
		EmployeeID: &e.ID,
		CompanyID:  &e.CompanyID,
		Role:       string(user.RoleEmployee),
	}
}

func manager(scope tenant.Scope) tenant.Actor {
	companyID := scope.CompanyID()
	return tenant.Actor{UserID: "user-manager", CompanyID: &companyID, Role: string(user.RoleManager)}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.January, 14, hour, minute, 0, 0, time.UTC)
}

func TestRecordEvent_LateArrivalNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme", ToleranceMinutes: 5})
	emp := f.addEmployee(t, f.scope, "E1")

	f.clock = at(9, 20)
	resp, events, err := f.svc.RecordEvent(ctx, staff(emp), f.scope, attendance.RecordEventRequest{Kind: "check_in"})
	require.NoError(t, err)
	require.NotNil(t, resp.Workday)
	assert.Equal(t, attendance.StatusLate, resp.Workday.Status)
	assert.Equal(t, 20, resp.Workday.MinutesLate)

	require.Len(t, events.Notifications, 1)
	assert.Equal(t, emp.ID, events.Notifications[0].RecipientEmployeeID)
	assert.Equal(t, event.CategoryAttendance, events.Notifications[0].Category)
	require.Len(t, events.Audits, 1)
	assert.Equal(t, "attendance.record", events.Audits[0].Action)

	f.clock = at(17, 5)
	resp, events, err = f.svc.RecordEvent(ctx, staff(emp), f.scope, attendance.RecordEventRequest{Kind: "check_out"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Workday.Status)
	assert.Equal(t, 7*60+45, resp.Workday.MinutesWorked)
	assert.Empty(t, events.Notifications, "staying late must not notify again")
}

func TestRecordEvent_OnTimeWithinTolerance(t *testing.T) {
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme", ToleranceMinutes: 10})
	emp := f.addEmployee(t, f.scope, "E1")

	f.clock = at(9, 10)
	resp, events, err := f.svc.RecordEvent(context.Background(), staff(emp), f.scope, attendance.RecordEventRequest{Kind: "check_in"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnTime, resp.Workday.Status)
	assert.Empty(t, events.Notifications)
}

func TestRecordEvent_RejectsFutureEvent(t *testing.T) {
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	emp := f.addEmployee(t, f.scope, "E1")

	f.clock = at(9, 0)
	_, _, err := f.svc.RecordEvent(context.Background(), staff(emp), f.scope, attendance.RecordEventRequest{
		Kind:       "check_in",
		OccurredAt: strPtr(at(9, 6).Format(time.RFC3339)),
	})
	assert.ErrorIs(t, err, attendance.ErrEventInFuture)

	_, _, err = f.svc.RecordEvent(context.Background(), staff(emp), f.scope, attendance.RecordEventRequest{
		Kind:       "check_in",
		OccurredAt: strPtr(at(9, 4).Format(time.RFC3339)),
	})
	assert.NoError(t, err, "small clock skew is accepted")
}

func TestRecordEvent_Geofence(t *testing.T) {
	f := newFixture(t, company.Company{
		Name:                 "Acme",
		Username:             "acme",
		OfficeLatitude:       f64Ptr(-6.2000),
		OfficeLongitude:      f64Ptr(106.8166),
		GeofenceRadiusMeters: intPtr(100),
	})
	emp := f.addEmployee(t, f.scope, "E1")
	f.clock = at(8, 55)

	_, _, err := f.svc.RecordEvent(context.Background(), staff(emp), f.scope, attendance.RecordEventRequest{
		Kind:      "check_in",
		Latitude:  f64Ptr(-6.2100),
		Longitude: f64Ptr(106.8166),
	})
	assert.ErrorIs(t, err, attendance.ErrOutsideGeofence)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, _, err = f.svc.RecordEvent(context.Background(), staff(emp), f.scope, attendance.RecordEventRequest{
		Kind:      "check_in",
		Latitude:  f64Ptr(-6.2001),
		Longitude: f64Ptr(106.8166),
	})
	assert.NoError(t, err)
}

func TestRecordEvent_ForOtherEmployeeNeedsManage(t *testing.T) {
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	alice := f.addEmployee(t, f.scope, "E1")
	bob := f.addEmployee(t, f.scope, "E2")
	f.clock = at(9, 0)

	_, _, err := f.svc.RecordEvent(context.Background(), staff(alice), f.scope, attendance.RecordEventRequest{
		EmployeeID: &bob.ID,
		Kind:       "check_in",
	})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	resp, _, err := f.svc.RecordEvent(context.Background(), manager(f.scope), f.scope, attendance.RecordEventRequest{
		EmployeeID: &bob.ID,
		Kind:       "check_in",
	})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, resp.Event.EmployeeID)
}

func TestRecompute_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	emp := f.addEmployee(t, f.scope, "E1")

	f.clock = at(9, 30)
	_, _, err := f.svc.RecordEvent(ctx, staff(emp), f.scope, attendance.RecordEventRequest{Kind: "check_in"})
	require.NoError(t, err)

	f.clock = at(18, 0)
	req := attendance.RecomputeRequest{EmployeeID: emp.ID, Date: "2026-01-14"}
	first, events, err := f.svc.Recompute(ctx, manager(f.scope), f.scope, req)
	require.NoError(t, err)
	assert.Empty(t, events.Notifications, "status did not change")

	second, events, err := f.svc.Recompute(ctx, manager(f.scope), f.scope, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Empty(t, events.Notifications)

	list, err := f.svc.ListWorkdays(ctx, manager(f.scope), f.scope, attendance.WorkdayFilter{From: workDate, To: workDate})
	require.NoError(t, err)
	assert.Len(t, list.Workdays, 1)
}

func TestRecompute_FutureDateWithoutEvents(t *testing.T) {
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	emp := f.addEmployee(t, f.scope, "E1")
	f.clock = at(12, 0)

	_, _, err := f.svc.Recompute(context.Background(), manager(f.scope), f.scope, attendance.RecomputeRequest{
		EmployeeID: emp.ID,
		Date:       "2026-01-15",
	})
	assert.ErrorIs(t, err, attendance.ErrDateNotComputable)
}

func TestRecompute_RequiresManage(t *testing.T) {
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	emp := f.addEmployee(t, f.scope, "E1")

	_, _, err := f.svc.Recompute(context.Background(), staff(emp), f.scope, attendance.RecomputeRequest{
		EmployeeID: emp.ID,
		Date:       "2026-01-14",
	})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestRecomputeDay_ClassifiesEveryActiveEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	present := f.addEmployee(t, f.scope, "E1")
	onLeave := f.addEmployee(t, f.scope, "E2")
	missing := f.addEmployee(t, f.scope, "E3")

	f.clock = at(8, 50)
	_, _, err := f.svc.RecordEvent(ctx, staff(present), f.scope, attendance.RecordEventRequest{Kind: "check_in"})
	require.NoError(t, err)
	f.clock = at(17, 0)
	_, _, err = f.svc.RecordEvent(ctx, staff(present), f.scope, attendance.RecordEventRequest{Kind: "check_out"})
	require.NoError(t, err)

	lt, err := f.store.LeaveTypes().Create(ctx, f.scope, leave.LeaveType{Name: "Sick", IsActive: true})
	require.NoError(t, err)
	req, err := f.store.LeaveRequests().Create(ctx, f.scope, leave.LeaveRequest{
		EmployeeID:  onLeave.ID,
		LeaveTypeID: lt.ID,
		StartDate:   workDate,
		EndDate:     workDate,
	})
	require.NoError(t, err)
	_, err = f.store.LeaveRequests().Decide(ctx, f.scope, req.ID, leave.StatusApproved, at(8, 0))
	require.NoError(t, err)

	f.clock = time.Date(2026, time.January, 15, 1, 0, 0, 0, time.UTC)
	result, events, err := f.svc.RecomputeDay(ctx, tenant.System(), f.scope, workDate)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Computed)
	assert.Equal(t, 0, result.Skipped)

	statuses := map[string]attendance.Status{}
	for _, e := range []employee.Employee{present, onLeave, missing} {
		w, err := f.svc.GetWorkday(ctx, manager(f.scope), f.scope, e.ID, workDate)
		require.NoError(t, err)
		statuses[e.ID] = w.Status
	}
	assert.Equal(t, attendance.StatusOnTime, statuses[present.ID])
	assert.Equal(t, attendance.StatusExcused, statuses[onLeave.ID])
	assert.Equal(t, attendance.StatusAbsent, statuses[missing.ID])

	require.Len(t, events.Notifications, 1)
	assert.Equal(t, missing.ID, events.Notifications[0].RecipientEmployeeID)

	absent, err := f.svc.ListWorkdays(ctx, manager(f.scope), f.scope, attendance.WorkdayFilter{
		Status: statusPtr(attendance.StatusAbsent),
		From:   workDate,
		To:     workDate,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, absent.TotalCount)
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	emp := f.addEmployee(t, f.scope, "E1")
	_, otherScope := f.store.AddCompany(company.Company{Name: "Globex", Username: "globex"})

	f.clock = at(9, 0)
	_, _, err := f.svc.RecordEvent(ctx, staff(emp), f.scope, attendance.RecordEventRequest{Kind: "check_in"})
	require.NoError(t, err)

	_, err = f.svc.GetWorkday(ctx, manager(otherScope), otherScope, emp.ID, workDate)
	assert.ErrorIs(t, err, attendance.ErrWorkdayNotFound)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, _, err = f.svc.RecordEvent(ctx, manager(otherScope), otherScope, attendance.RecordEventRequest{
		EmployeeID: &emp.ID,
		Kind:       "check_out",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	events, err := f.svc.ListEvents(ctx, manager(otherScope), otherScope, attendance.EventFilter{
		From: at(0, 0),
		To:   at(23, 59),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListEvents_EmployeeSeesOnlyOwn(t *testing.T) {
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	alice := f.addEmployee(t, f.scope, "E1")
	bob := f.addEmployee(t, f.scope, "E2")

	_, err := f.svc.ListEvents(context.Background(), staff(alice), f.scope, attendance.EventFilter{
		EmployeeID: &bob.ID,
		From:       at(0, 0),
		To:         at(23, 0),
	})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.ListEvents(context.Background(), staff(alice), f.scope, attendance.EventFilter{
		From: at(0, 0),
		To:   at(0, 0).AddDate(0, 4, 0),
	})
	assert.ErrorIs(t, err, attendance.ErrRangeTooLong)
}

func TestRecomputeEmployeeRange_StopsAtToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, company.Company{Name: "Acme", Username: "acme"})
	e := f.addEmployee(t, f.scope, "E1")
	f.clock = at(12, 0)

	_, err := f.svc.RecomputeEmployeeRange(ctx, f.scope, e.ID, workcal.Date(2026, time.January, 9), workcal.Date(2026, time.January, 16))
	require.NoError(t, err)

	for _, day := range []int{9, 12, 13} {
		w, err := f.store.Workdays().Get(ctx, f.scope, e.ID, workcal.Date(2026, time.January, day))
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusAbsent, w.Status)
	}
	for _, day := range []int{10, 11, 15, 16} {
		_, err := f.store.Workdays().Get(ctx, f.scope, e.ID, workcal.Date(2026, time.January, day))
		assert.ErrorIs(t, err, attendance.ErrWorkdayNotFound, "day %d", day)
	}
}
