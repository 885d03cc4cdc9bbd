package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	attendanceService "github.com/cmlabs-hris/hris-workforce-go/internal/service/attendance"
	companyService "github.com/cmlabs-hris/hris-workforce-go/internal/service/company"
	employeeService "github.com/cmlabs-hris/hris-workforce-go/internal/service/employee"
	eventService "github.com/cmlabs-hris/hris-workforce-go/internal/service/event"
	leaveService "github.com/cmlabs-hris/hris-workforce-go/internal/service/leave"
	tenantService "github.com/cmlabs-hris/hris-workforce-go/internal/service/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type api struct {
	router   *chi.Mux
	jwt      *jwt.JWTService
	store    *testutil.Store
	recorder *testutil.Recorder

	acme, globex   company.Company
	boss, staff    employee.Employee
	outsider       employee.Employee
	sick           leave.LeaveType
	acmeScope      tenant.Scope
	globexScope    tenant.Scope
	attendanceTime time.Time
}

func newAPI(t *testing.T) *api {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	recorder := &testutil.Recorder{}
	a := &api{
		jwt:      jwt.NewJWTService(handlerTestSecret, time.Hour),
		store:    store,
		recorder: recorder,
		// Wednesday 14 January 2026, 10:00 UTC
		attendanceTime: time.Date(2026, time.January, 14, 10, 0, 0, 0, time.UTC),
	}

	a.acme, a.acmeScope = store.AddCompany(company.Company{Name: "Acme", Username: "acme", Timezone: "UTC"})
	a.globex, a.globexScope = store.AddCompany(company.Company{Name: "Globex", Username: "globex", Timezone: "UTC"})

	a.boss = addTestEmployee(t, store, a.acmeScope, "BOSS", nil)
	unit, err := store.OrgUnits().Create(ctx, a.acmeScope, orgunit.OrgUnit{Name: "Ops", ManagerEmployeeID: &a.boss.ID})
	require.NoError(t, err)
	a.staff = addTestEmployee(t, store, a.acmeScope, "E1", &unit.ID)
	a.outsider = addTestEmployee(t, store, a.globexScope, "G1", nil)

	a.sick, err = store.LeaveTypes().Create(ctx, a.acmeScope, leave.LeaveType{Name: "Sick", IsActive: true})
	require.NoError(t, err)

	dispatcher := eventService.NewDispatcher(recorder, recorder)
	attendance := attendanceService.NewAttendanceService(
		store.Transactor(),
		store.Events(),
		store.Workdays(),
		store.Employees(),
		store.Companies(),
		store.LeaveRequests(),
	).WithClock(func() time.Time { return a.attendanceTime })
	leaves := leaveService.NewLeaveService(
		store.Transactor(),
		store.LeaveTypes(),
		store.LeaveRequests(),
		store.ApprovalRecords(),
		store.Balances(),
		store.Employees(),
		store.Approvers(),
		attendance,
	)

	handlers := Handlers{
		Auth:         NewAuthHandler(nil),
		User:         NewUserHandler(nil, dispatcher),
		Company:      NewCompanyHandler(companyService.NewCompanyService(store.Transactor(), store.Companies(), store.LeaveTypes()), dispatcher),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(store.Employees(), store.OrgUnits()), dispatcher),
		OrgUnit:      NewOrgUnitHandler(nil, dispatcher),
		Attendance:   NewAttendanceHandler(attendance, dispatcher),
		Leave:        NewLeaveHandler(leaves, dispatcher),
		Notification: NewNotificationHandler(nil, a.jwt),
		Dashboard:    NewDashboardHandler(nil),
		Report:       NewReportHandler(nil),
	}
	resolver := tenantService.NewResolver(store.Companies(), store.Selections())
	a.router = NewRouter(a.jwt, resolver, handlers, RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		Env:            "test",
		Version:        "test",
	})
	return a
}

func addTestEmployee(t *testing.T, store *testutil.Store, scope tenant.Scope, code string, unitID *string) employee.Employee {
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

func (a *api) tokenFor(t *testing.T, e *employee.Employee, role user.Role) string {
	t.Helper()
	claims := jwt.Claims{UserID: "user-" + string(role), Email: string(role) + "@example.com", Role: string(role)}
	if e != nil {
		claims.UserID = "user-" + e.EmployeeCode
		claims.EmployeeID = &e.ID
		claims.CompanyID = &e.CompanyID
	}
	token, _, err := a.jwt.GenerateAccessToken(claims)
	require.NoError(t, err)
	return token
}

func (a *api) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestRouter_RequiresAccessToken(t *testing.T) {
	a := newAPI(t)

	rec, _ := a.do(t, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stream, _, err := a.jwt.GenerateStreamToken(jwt.Claims{UserID: "u1", Role: string(user.RoleEmployee), EmployeeID: &a.staff.ID})
	require.NoError(t, err)
	rec, _ = a.do(t, http.MethodGet, "/api/v1/employees", stream, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "stream tokens only open the SSE endpoint")
}

func TestRouter_GlobalActorMustSelectCompany(t *testing.T) {
	a := newAPI(t)
	token := a.tokenFor(t, nil, user.RoleSuperAdmin)

	rec, resp := a.do(t, http.MethodGet, "/api/v1/company", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)

	rec, _ = a.do(t, http.MethodGet, "/api/v1/company?company_id="+a.globex.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The selection is remembered for the next request
	rec, resp = a.do(t, http.MethodGet, "/api/v1/company", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, a.globex.ID, data["id"])
}

func TestRouter_ScopedActorCannotSwitchCompany(t *testing.T) {
	a := newAPI(t)
	token := a.tokenFor(t, &a.boss, user.RoleManager)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/company", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(middleware.CompanyHeader, a.globex.ID)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, a.acme.ID, resp.Data.(map[string]any)["id"])
}

func TestRouter_CrossTenantLookupIsNotFound(t *testing.T) {
	a := newAPI(t)
	token := a.tokenFor(t, &a.boss, user.RoleManager)

	rec, _ := a.do(t, http.MethodGet, "/api/v1/employees/"+a.staff.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := a.do(t, http.MethodGet, "/api/v1/employees/"+a.outsider.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
}

func TestRouter_PermissionMiddleware(t *testing.T) {
	a := newAPI(t)
	token := a.tokenFor(t, &a.staff, user.RoleEmployee)

	rec, resp := a.do(t, http.MethodPost, "/api/v1/attendance/recompute", token, map[string]string{
		"employee_id": a.staff.ID,
		"date":        "2026-01-13",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, _ = a.do(t, http.MethodGet, "/api/v1/companies", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_RecordAttendanceEvent(t *testing.T) {
	a := newAPI(t)
	token := a.tokenFor(t, &a.staff, user.RoleEmployee)

	rec, resp := a.do(t, http.MethodPost, "/api/v1/attendance/events", token, map[string]string{
		"kind":        "check_in",
		"occurred_at": "2026-01-14T09:20:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := resp.Data.(map[string]any)
	assert.Equal(t, "check_in", data["event"].(map[string]any)["kind"])

	rec, resp = a.do(t, http.MethodPost, "/api/v1/attendance/events", token, map[string]string{"kind": "lunch"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Error.Details, "kind")

	assert.NotEmpty(t, a.recorder.Audits, "recording is audited")
}

func TestRouter_LeaveApprovalFlow(t *testing.T) {
	a := newAPI(t)
	staffToken := a.tokenFor(t, &a.staff, user.RoleEmployee)
	bossToken := a.tokenFor(t, &a.boss, user.RoleManager)

	rec, resp := a.do(t, http.MethodPost, "/api/v1/leave/requests", staffToken, map[string]string{
		"leave_type_id": a.sick.ID,
		"start_date":    "2026-01-19",
		"end_date":      "2026-01-20",
		"reason":        "flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := resp.Data.(map[string]any)["id"].(string)

	// Only the designated approver decides
	rec, _ = a.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/approve", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = a.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/approve", bossToken, map[string]string{"comment": "get well"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(leave.StatusApproved), resp.Data.(map[string]any)["status"])

	rec, resp = a.do(t, http.MethodPost, "/api/v1/leave/requests/"+id+"/reject", bossToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, leave.ErrAlreadyDecided.Error(), resp.Error.Message)

	rec, resp = a.do(t, http.MethodGet, "/api/v1/leave/requests/"+id+"/history", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 2)

	var recipients []string
	for _, n := range a.recorder.Notifications {
		recipients = append(recipients, n.RecipientEmployeeID)
	}
	assert.Equal(t, []string{a.boss.ID, a.staff.ID}, recipients)
}

func TestRouter_StreamRejectsAccessToken(t *testing.T) {
	a := newAPI(t)

	rec, _ := a.do(t, http.MethodGet, "/api/v1/notifications/stream?token="+a.tokenFor(t, &a.staff, user.RoleEmployee), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(t, http.MethodGet, "/api/v1/notifications/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
