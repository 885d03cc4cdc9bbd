package leave

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
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	attendanceService "github.com/cmlabs-hris/hris-workforce-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	store    *testutil.Store
	svc      leave.LeaveService
	workdays *attendanceService.AttendanceServiceImpl
	scope    tenant.Scope
	staff    employee.Employee
	boss     employee.Employee
	bystand  employee.Employee
	annual   leave.LeaveType
	sick     leave.LeaveType
	document leave.LeaveType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	_, scope := store.AddCompany(company.Company{Name: "Acme", Username: "acme"})

	f := &fixture{store: store, scope: scope}
	// Wednesday 28 January 2026, after the week submitWeek files.
	f.workdays = attendanceService.NewAttendanceService(
		store.Transactor(),
		store.Events(),
		store.Workdays(),
		store.Employees(),
		store.Companies(),
		store.LeaveRequests(),
	).WithClock(func() time.Time { return time.Date(2026, time.January, 28, 10, 0, 0, 0, time.UTC) })
	f.svc = NewLeaveService(
		store.Transactor(),
		store.LeaveTypes(),
		store.LeaveRequests(),
		store.ApprovalRecords(),
		store.Balances(),
		store.Employees(),
		store.Approvers(),
		f.workdays,
	)

	f.boss = addEmployee(t, store, scope, "BOSS", nil)
	unit, err := store.OrgUnits().Create(ctx, scope, orgunit.OrgUnit{Name: "Ops", ManagerEmployeeID: &f.boss.ID})
	require.NoError(t, err)
	f.staff = addEmployee(t, store, scope, "E1", &unit.ID)
	f.bystand = addEmployee(t, store, scope, "E2", &unit.ID)

	f.annual = addType(t, store, scope, leave.LeaveType{Name: "Annual", DeductsVacation: true, IsActive: true})
	f.sick = addType(t, store, scope, leave.LeaveType{Name: "Sick", IsActive: true})
	f.document = addType(t, store, scope, leave.LeaveType{Name: "Medical", RequiresDocument: true, IsActive: true})
	return f
}

func addEmployee(t *testing.T, store *testutil.Store, scope tenant.Scope, code string, unitID *string) employee.Employee {
	t.Helper()
	e, err := store.Employees().Create(context.Background(), scope, employee.Employee{
		OrgUnitID:    unitID,
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

func addType(t *testing.T, store *testutil.Store, scope tenant.Scope, lt leave.LeaveType) leave.LeaveType {
	t.Helper()
	created, err := store.LeaveTypes().Create(context.Background(), scope, lt)
	require.NoError(t, err)
	return created
}

func actorFor(e employee.Employee, role user.Role) tenant.Actor {
	return tenant.Actor{
		UserID:     "user-" + e.EmployeeCode,
		EmployeeID: &e.ID,
		CompanyID:  &e.CompanyID,
		Role:       string(role),
	}
}

// submitWeek files Monday 19 to Friday 23 January 2026.
func (f *fixture) submitWeek(t *testing.T, typeID string) leave.LeaveRequestResponse {
	t.Helper()
	resp, _, err := f.svc.Submit(context.Background(), actorFor(f.staff, user.RoleEmployee), f.scope, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID,
		StartDate:   "2026-01-19",
		EndDate:     "2026-01-23",
		Reason:      "family trip",
	})
	require.NoError(t, err)
	return resp
}

func TestSubmit_NotifiesResolvedApprover(t *testing.T) {
	f := newFixture(t)

	resp, events, err := f.svc.Submit(context.Background(), actorFor(f.staff, user.RoleEmployee), f.scope, leave.CreateLeaveRequestRequest{
		LeaveTypeID: f.sick.ID,
		StartDate:   "2026-01-16",
		EndDate:     "2026-01-20",
		Reason:      "flu",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, 3, resp.BusinessDays, "Fri, Mon and Tue")
	assert.Equal(t, f.boss.ID, resp.ApproverEmployeeID)

	require.Len(t, events.Notifications, 1)
	assert.Equal(t, f.boss.ID, events.Notifications[0].RecipientEmployeeID)
	assert.Equal(t, event.CategoryLeave, events.Notifications[0].Category)

	history, err := f.svc.History(context.Background(), actorFor(f.staff, user.RoleEmployee), f.scope, resp.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, leave.ActionSubmit, history[0].Action)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	actor := actorFor(f.staff, user.RoleEmployee)

	tests := []struct {
		name    string
		req     leave.CreateLeaveRequestRequest
		wantErr error
	}{
		{
			name:    "weekend only",
			req:     leave.CreateLeaveRequestRequest{LeaveTypeID: f.sick.ID, StartDate: "2026-01-17", EndDate: "2026-01-18", Reason: "x"},
			wantErr: leave.ErrNoBusinessDays,
		},
		{
			name:    "end before start",
			req:     leave.CreateLeaveRequestRequest{LeaveTypeID: f.sick.ID, StartDate: "2026-01-20", EndDate: "2026-01-19", Reason: "x"},
			wantErr: leave.ErrEndBeforeStart,
		},
		{
			name:    "missing document",
			req:     leave.CreateLeaveRequestRequest{LeaveTypeID: f.document.ID, StartDate: "2026-01-19", EndDate: "2026-01-19", Reason: "x"},
			wantErr: leave.ErrDocumentRequired,
		},
		{
			name:    "no vacation balance",
			req:     leave.CreateLeaveRequestRequest{LeaveTypeID: f.annual.ID, StartDate: "2026-01-19", EndDate: "2026-01-19", Reason: "x"},
			wantErr: leave.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Submit(context.Background(), actor, f.scope, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		})
	}
}

func TestSubmit_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.submitWeek(t, f.sick.ID)

	_, _, err := f.svc.Submit(context.Background(), actorFor(f.staff, user.RoleEmployee), f.scope, leave.CreateLeaveRequestRequest{
		LeaveTypeID: f.sick.ID,
		StartDate:   "2026-01-23",
		EndDate:     "2026-01-26",
		Reason:      "again",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestDecide_OnlyDesignatedApprover(t *testing.T) {
	f := newFixture(t)
	req := f.submitWeek(t, f.sick.ID)

	_, _, err := f.svc.Approve(context.Background(), actorFor(f.bystand, user.RoleManager), f.scope, req.ID, leave.DecisionRequest{})
	assert.ErrorIs(t, err, leave.ErrNotApprover)

	_, _, err = f.svc.Approve(context.Background(), actorFor(f.staff, user.RoleEmployee), f.scope, req.ID, leave.DecisionRequest{})
	assert.ErrorIs(t, err, leave.ErrNotApprover, "requesters cannot approve themselves")

	stored, err := f.svc.Get(context.Background(), actorFor(f.staff, user.RoleEmployee), f.scope, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)
}

func TestApprove_MakesRequestImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := f.submitWeek(t, f.sick.ID)
	boss := actorFor(f.boss, user.RoleManager)
	owner := actorFor(f.staff, user.RoleEmployee)

	approved, events, err := f.svc.Approve(ctx, boss, f.scope, req.ID, leave.DecisionRequest{Comment: "enjoy"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)
	require.Len(t, events.Notifications, 1)
	assert.Equal(t, f.staff.ID, events.Notifications[0].RecipientEmployeeID)
	assert.Contains(t, events.Notifications[0].Message, "approved")

	_, _, err = f.svc.Update(ctx, owner, f.scope, req.ID, leave.UpdateLeaveRequestRequest{Reason: strPtr("changed")})
	assert.ErrorIs(t, err, leave.ErrNotPending)
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))

	_, err = f.svc.Delete(ctx, owner, f.scope, req.ID)
	assert.ErrorIs(t, err, leave.ErrNotPending)

	_, _, err = f.svc.Reject(ctx, boss, f.scope, req.ID, leave.DecisionRequest{})
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	stored, err := f.svc.Get(ctx, owner, f.scope, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.Equal(t, "family trip", stored.Reason)

	history, err := f.svc.History(ctx, owner, f.scope, req.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, leave.ActionApprove, history[1].Action)
	assert.Equal(t, "enjoy", history[1].Comment)
}

func TestRejectAndReturn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	boss := actorFor(f.boss, user.RoleManager)

	rejected, _, err := f.svc.Reject(ctx, boss, f.scope, f.submitWeek(t, f.sick.ID).ID, leave.DecisionRequest{Comment: "busy week"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)

	returned, _, err := f.svc.Return(ctx, boss, f.scope, f.submitWeek(t, f.sick.ID).ID, leave.DecisionRequest{})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusReturned, returned.Status)
}

func TestApprove_ConsumesVacation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := tenant.System()

	_, _, err := f.svc.SetBalance(ctx, admin, f.scope, leave.SetBalanceRequest{EmployeeID: f.staff.ID, Period: 2026, AssignedDays: 12})
	require.NoError(t, err)

	req := f.submitWeek(t, f.annual.ID)
	_, _, err = f.svc.Approve(ctx, actorFor(f.boss, user.RoleManager), f.scope, req.ID, leave.DecisionRequest{})
	require.NoError(t, err)

	balance, err := f.svc.GetBalance(ctx, actorFor(f.staff, user.RoleEmployee), f.scope, f.staff.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 5, balance.TakenDays)
	assert.Equal(t, 7, balance.AvailableDays)

	_, _, err = f.svc.SetBalance(ctx, admin, f.scope, leave.SetBalanceRequest{EmployeeID: f.staff.ID, Period: 2026, AssignedDays: 4})
	assert.ErrorIs(t, err, leave.ErrAssignedBelowTaken)
}

func TestApprove_FailsOnBalanceShortfall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := tenant.System()

	_, _, err := f.svc.SetBalance(ctx, admin, f.scope, leave.SetBalanceRequest{EmployeeID: f.staff.ID, Period: 2026, AssignedDays: 5})
	require.NoError(t, err)
	req := f.submitWeek(t, f.annual.ID)

	// Another approval consumed the days in the meantime.
	_, err = f.store.Balances().Consume(ctx, f.scope, f.staff.ID, 2026, 3)
	require.NoError(t, err)

	_, _, err = f.svc.Approve(ctx, actorFor(f.boss, user.RoleManager), f.scope, req.ID, leave.DecisionRequest{})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestUpdateAndDelete_WhilePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := actorFor(f.staff, user.RoleEmployee)
	req := f.submitWeek(t, f.sick.ID)

	_, _, err := f.svc.Update(ctx, actorFor(f.bystand, user.RoleEmployee), f.scope, req.ID, leave.UpdateLeaveRequestRequest{Reason: strPtr("mine now")})
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	updated, _, err := f.svc.Update(ctx, owner, f.scope, req.ID, leave.UpdateLeaveRequestRequest{
		EndDate: strPtr("2026-01-21"),
		Reason:  strPtr("shorter trip"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.BusinessDays)
	assert.Equal(t, "shorter trip", updated.Reason)

	_, err = f.svc.Delete(ctx, owner, f.scope, req.ID)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, owner, f.scope, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	records, err := f.store.ApprovalRecords().ListByRequest(ctx, f.scope, req.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, leave.ActionWithdraw, records[1].Action)
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := f.submitWeek(t, f.sick.ID)

	_, otherScope := f.store.AddCompany(company.Company{Name: "Globex", Username: "globex"})
	outsider := tenant.System()

	_, err := f.svc.Get(ctx, outsider, otherScope, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, _, err = f.svc.Approve(ctx, actorFor(f.boss, user.RoleManager), otherScope, req.ID, leave.DecisionRequest{})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	list, err := f.svc.List(ctx, outsider, otherScope, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Requests)
}

func TestList_EmployeeSeesOwnAndApproverInbox(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.submitWeek(t, f.sick.ID)

	mine, err := f.svc.List(ctx, actorFor(f.bystand, user.RoleEmployee), f.scope, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, mine.Requests)

	inbox, err := f.svc.List(ctx, actorFor(f.boss, user.RoleEmployee), f.scope, leave.LeaveRequestFilter{ApproverID: &f.boss.ID})
	require.NoError(t, err)
	assert.Len(t, inbox.Requests, 1)
}

func TestApprove_ExcusesDaysAlreadyClassifiedAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	monday := workcal.Date(2026, time.January, 19)

	_, _, err := f.workdays.RecomputeDay(ctx, tenant.System(), f.scope, monday)
	require.NoError(t, err)
	before, err := f.store.Workdays().Get(ctx, f.scope, f.staff.ID, monday)
	require.NoError(t, err)
	require.Equal(t, attendance.StatusAbsent, before.Status)

	req := f.submitWeek(t, f.sick.ID)
	_, _, err = f.svc.Approve(ctx, actorFor(f.boss, user.RoleManager), f.scope, req.ID, leave.DecisionRequest{})
	require.NoError(t, err)

	for day := monday; !day.After(workcal.Date(2026, time.January, 23)); day = workcal.AddDays(day, 1) {
		w, err := f.store.Workdays().Get(ctx, f.scope, f.staff.ID, day)
		require.NoError(t, err, day.Format("2006-01-02"))
		assert.Equal(t, attendance.StatusExcused, w.Status, day.Format("2006-01-02"))
	}

	other, err := f.store.Workdays().Get(ctx, f.scope, f.bystand.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, other.Status, "only the requester is excused")
}

func TestReject_LeavesWorkdaysUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	monday := workcal.Date(2026, time.January, 19)

	_, _, err := f.workdays.RecomputeDay(ctx, tenant.System(), f.scope, monday)
	require.NoError(t, err)

	req := f.submitWeek(t, f.sick.ID)
	_, _, err = f.svc.Reject(ctx, actorFor(f.boss, user.RoleManager), f.scope, req.ID, leave.DecisionRequest{Comment: "busy week"})
	require.NoError(t, err)

	w, err := f.store.Workdays().Get(ctx, f.scope, f.staff.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, w.Status)
	_, err = f.store.Workdays().Get(ctx, f.scope, f.staff.ID, workcal.Date(2026, time.January, 20))
	assert.ErrorIs(t, err, attendance.ErrWorkdayNotFound)
}
