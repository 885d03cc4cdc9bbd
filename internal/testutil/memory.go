// Package testutil holds in-memory repositories for service tests. They
// honour the same tenant scoping and guarded updates as the PostgreSQL
// implementations.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/google/uuid"
)

// Store is a shared in-memory database.
type Store struct {
	mu sync.Mutex

	companies     map[string]company.Company
	employees     map[string]employee.Employee
	orgUnits      map[string]orgunit.OrgUnit
	events        []attendance.Event
	workdays      map[string]attendance.Workday
	leaveTypes    map[string]leave.LeaveType
	leaveRequests map[string]leave.LeaveRequest
	deleted       map[string]bool
	records       []leave.ApprovalRecord
	balances      map[string]leave.VacationBalance
	selections    map[string]string
	users         map[string]user.User
	UpsertCalls   int
	TxCalls       int
}

func NewStore() *Store {
	return &Store{
		companies:     make(map[string]company.Company),
		employees:     make(map[string]employee.Employee),
		orgUnits:      make(map[string]orgunit.OrgUnit),
		workdays:      make(map[string]attendance.Workday),
		leaveTypes:    make(map[string]leave.LeaveType),
		leaveRequests: make(map[string]leave.LeaveRequest),
		deleted:       make(map[string]bool),
		balances:      make(map[string]leave.VacationBalance),
		selections:    make(map[string]string),
		users:         make(map[string]user.User),
	}
}

func newID() string { return uuid.New().String() }

// ===== Transactor =====

// Transactor runs fn directly; the store has no rollback.
type Transactor struct{ s *Store }

func (s *Store) Transactor() Transactor { return Transactor{s} }

func (t Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.s.mu.Lock()
	t.s.TxCalls++
	t.s.mu.Unlock()
	return fn(ctx)
}

// ===== Companies =====

type Companies struct{ s *Store }

func (s *Store) Companies() Companies { return Companies{s} }

// AddCompany stores c with a fresh id and returns its scope.
func (s *Store) AddCompany(c company.Company) (company.Company, tenant.Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	s.companies[c.ID] = c
	return c, tenant.NewScope(c.ID)
}

func (r Companies) Get(ctx context.Context, scope tenant.Scope) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[scope.CompanyID()]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r Companies) Exists(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.companies[id]
	return ok, nil
}

func (r Companies) List(ctx context.Context) ([]company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]company.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r Companies) Create(ctx context.Context, c company.Company) (company.Company, error) {
	r.s.mu.Lock()
	for _, existing := range r.s.companies {
		if existing.Username == c.Username {
			r.s.mu.Unlock()
			return company.Company{}, company.ErrCompanyUsernameExists
		}
	}
	r.s.mu.Unlock()
	created, _ := r.s.AddCompany(c)
	return created, nil
}

func (r Companies) Update(ctx context.Context, scope tenant.Scope, c company.Company) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[scope.CompanyID()]; !ok || c.ID != scope.CompanyID() {
		return company.Company{}, company.ErrCompanyNotFound
	}
	r.s.companies[c.ID] = c
	return c, nil
}

// ===== Tenant selections =====

type Selections struct{ s *Store }

func (s *Store) Selections() Selections { return Selections{s} }

func (r Selections) Remembered(ctx context.Context, userID string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.selections[userID], nil
}

func (r Selections) Remember(ctx context.Context, userID, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.selections[userID] = companyID
	return nil
}

// ===== Employees =====

type Employees struct{ s *Store }

func (s *Store) Employees() Employees { return Employees{s} }

func (r Employees) GetByID(ctx context.Context, scope tenant.Scope, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok || !scope.Owns(e.CompanyID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r Employees) List(ctx context.Context, scope tenant.Scope, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	all, err := r.ListActive(ctx, scope)
	return all, int64(len(all)), err
}

func (r Employees) ListActive(ctx context.Context, scope tenant.Scope) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.s.employees {
		if scope.Owns(e.CompanyID) && e.IsActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r Employees) Create(ctx context.Context, scope tenant.Scope, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	e.CompanyID = scope.CompanyID()
	r.s.employees[e.ID] = e
	return e, nil
}

func (r Employees) Update(ctx context.Context, scope tenant.Scope, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.employees[e.ID]
	if !ok || !scope.Owns(existing.CompanyID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	r.s.employees[e.ID] = e
	return e, nil
}

func (r Employees) ExistsByCodeOrNationalID(ctx context.Context, scope tenant.Scope, code, nationalID string) (bool, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var codeTaken, idTaken bool
	for _, e := range r.s.employees {
		if !scope.Owns(e.CompanyID) {
			continue
		}
		codeTaken = codeTaken || e.EmployeeCode == code
		idTaken = idTaken || e.NationalID == nationalID
	}
	return codeTaken, idTaken, nil
}

// ===== Org units =====

type OrgUnits struct{ s *Store }

func (s *Store) OrgUnits() OrgUnits { return OrgUnits{s} }

func (r OrgUnits) GetByID(ctx context.Context, scope tenant.Scope, id string) (orgunit.OrgUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.orgUnits[id]
	if !ok || !scope.Owns(u.CompanyID) {
		return orgunit.OrgUnit{}, orgunit.ErrOrgUnitNotFound
	}
	return u, nil
}

func (r OrgUnits) List(ctx context.Context, scope tenant.Scope) ([]orgunit.OrgUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []orgunit.OrgUnit
	for _, u := range r.s.orgUnits {
		if scope.Owns(u.CompanyID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r OrgUnits) Create(ctx context.Context, scope tenant.Scope, u orgunit.OrgUnit) (orgunit.OrgUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	u.CompanyID = scope.CompanyID()
	r.s.orgUnits[u.ID] = u
	return u, nil
}

func (r OrgUnits) Update(ctx context.Context, scope tenant.Scope, u orgunit.OrgUnit) (orgunit.OrgUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.orgUnits[u.ID]
	if !ok || !scope.Owns(existing.CompanyID) {
		return orgunit.OrgUnit{}, orgunit.ErrOrgUnitNotFound
	}
	r.s.orgUnits[u.ID] = u
	return u, nil
}

func (r OrgUnits) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.orgUnits[id]
	if !ok || !scope.Owns(existing.CompanyID) {
		return orgunit.ErrOrgUnitNotFound
	}
	delete(r.s.orgUnits, id)
	return nil
}

// Approvers resolves approvers from the stored org units.
type Approvers struct{ s *Store }

func (s *Store) Approvers() Approvers { return Approvers{s} }

func (a Approvers) Approver(ctx context.Context, scope tenant.Scope, employeeID string) (string, error) {
	emp, err := a.s.Employees().GetByID(ctx, scope, employeeID)
	if err != nil {
		return "", err
	}
	return orgunit.ResolveApprover(ctx, orgunit.LookupIn(a.s.OrgUnits(), scope), emp.ID, emp.OrgUnitID)
}

// ===== Attendance =====

type Events struct{ s *Store }

func (s *Store) Events() Events { return Events{s} }

func (r Events) Append(ctx context.Context, scope tenant.Scope, e attendance.Event) (attendance.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[e.EmployeeID]
	if !ok || !scope.Owns(emp.CompanyID) {
		return attendance.Event{}, employee.ErrEmployeeNotFound
	}
	e.ID = newID()
	e.CompanyID = scope.CompanyID()
	e.CreatedAt = time.Now().UTC()
	r.s.events = append(r.s.events, e)
	return e, nil
}

func (r Events) ListForEmployee(ctx context.Context, scope tenant.Scope, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Event
	for _, e := range r.s.events {
		if scope.Owns(e.CompanyID) && e.EmployeeID == employeeID && !e.OccurredAt.Before(from) && e.OccurredAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r Events) List(ctx context.Context, scope tenant.Scope, filter attendance.EventFilter) ([]attendance.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Event
	for _, e := range r.s.events {
		if !scope.Owns(e.CompanyID) || e.OccurredAt.Before(filter.From) || !e.OccurredAt.Before(filter.To) {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != e.EmployeeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type Workdays struct{ s *Store }

func (s *Store) Workdays() Workdays { return Workdays{s} }

func workdayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r Workdays) Upsert(ctx context.Context, scope tenant.Scope, w attendance.Workday) (attendance.Workday, attendance.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.UpsertCalls++
	emp, ok := r.s.employees[w.EmployeeID]
	if !ok || !scope.Owns(emp.CompanyID) {
		return attendance.Workday{}, "", employee.ErrEmployeeNotFound
	}
	key := workdayKey(w.EmployeeID, w.WorkDate)
	var previous attendance.Status
	if existing, ok := r.s.workdays[key]; ok {
		previous = existing.Status
		w.ID = existing.ID
	} else {
		w.ID = newID()
	}
	w.CompanyID = scope.CompanyID()
	r.s.workdays[key] = w
	return w, previous, nil
}

func (r Workdays) Get(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (attendance.Workday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workdays[workdayKey(employeeID, date)]
	if !ok || !scope.Owns(w.CompanyID) {
		return attendance.Workday{}, attendance.ErrWorkdayNotFound
	}
	return w, nil
}

func (r Workdays) List(ctx context.Context, scope tenant.Scope, filter attendance.WorkdayFilter) ([]attendance.Workday, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Workday
	for _, w := range r.s.workdays {
		if !scope.Owns(w.CompanyID) || w.WorkDate.Before(filter.From) || w.WorkDate.After(filter.To) {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != w.EmployeeID {
			continue
		}
		if filter.Status != nil && *filter.Status != w.Status {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, int64(len(out)), nil
}

// ===== Leave =====

type LeaveTypes struct{ s *Store }

func (s *Store) LeaveTypes() LeaveTypes { return LeaveTypes{s} }

func (r LeaveTypes) GetByID(ctx context.Context, scope tenant.Scope, id string) (leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lt, ok := r.s.leaveTypes[id]
	if !ok || !scope.Owns(lt.CompanyID) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r LeaveTypes) List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []leave.LeaveType
	for _, lt := range r.s.leaveTypes {
		if scope.Owns(lt.CompanyID) && (!activeOnly || lt.IsActive) {
			out = append(out, lt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r LeaveTypes) Create(ctx context.Context, scope tenant.Scope, lt leave.LeaveType) (leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.leaveTypes {
		if scope.Owns(existing.CompanyID) && existing.Name == lt.Name {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	lt.ID = newID()
	lt.CompanyID = scope.CompanyID()
	r.s.leaveTypes[lt.ID] = lt
	return lt, nil
}

func (r LeaveTypes) Update(ctx context.Context, scope tenant.Scope, lt leave.LeaveType) (leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.leaveTypes[lt.ID]
	if !ok || !scope.Owns(existing.CompanyID) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	r.s.leaveTypes[lt.ID] = lt
	return lt, nil
}

type LeaveRequests struct{ s *Store }

func (s *Store) LeaveRequests() LeaveRequests { return LeaveRequests{s} }

// lookup must be called with the lock held.
func (r LeaveRequests) lookup(scope tenant.Scope, id string) (leave.LeaveRequest, bool) {
	req, ok := r.s.leaveRequests[id]
	if !ok || r.s.deleted[id] || !scope.Owns(req.CompanyID) {
		return leave.LeaveRequest{}, false
	}
	return req, true
}

func (r LeaveRequests) GetByID(ctx context.Context, scope tenant.Scope, id string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.lookup(scope, id)
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r LeaveRequests) List(ctx context.Context, scope tenant.Scope, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []leave.LeaveRequest
	for id := range r.s.leaveRequests {
		req, ok := r.lookup(scope, id)
		if !ok {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != req.EmployeeID {
			continue
		}
		if filter.ApproverID != nil && *filter.ApproverID != req.ApproverEmployeeID {
			continue
		}
		if filter.Status != nil && *filter.Status != req.Status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, int64(len(out)), nil
}

func (r LeaveRequests) Create(ctx context.Context, scope tenant.Scope, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[req.EmployeeID]
	if !ok || !scope.Owns(emp.CompanyID) {
		return leave.LeaveRequest{}, employee.ErrEmployeeNotFound
	}
	now := time.Now().UTC()
	req.ID = newID()
	req.CompanyID = scope.CompanyID()
	req.Status = leave.StatusPending
	req.CreatedAt, req.UpdatedAt = now, now
	req.EmployeeName = emp.FullName
	req.LeaveTypeName = r.s.leaveTypes[req.LeaveTypeID].Name
	r.s.leaveRequests[req.ID] = req
	return req, nil
}

func (r LeaveRequests) UpdatePending(ctx context.Context, scope tenant.Scope, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.lookup(scope, req.ID)
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if existing.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrNotPending
	}
	existing.LeaveTypeID = req.LeaveTypeID
	existing.StartDate = req.StartDate
	existing.EndDate = req.EndDate
	existing.BusinessDays = req.BusinessDays
	existing.Reason = req.Reason
	existing.DocumentRef = req.DocumentRef
	existing.UpdatedAt = time.Now().UTC()
	r.s.leaveRequests[req.ID] = existing
	return existing, nil
}

func (r LeaveRequests) DeletePending(ctx context.Context, scope tenant.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.lookup(scope, id)
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if existing.Status != leave.StatusPending {
		return leave.ErrNotPending
	}
	r.s.deleted[id] = true
	return nil
}

func (r LeaveRequests) Decide(ctx context.Context, scope tenant.Scope, id string, status leave.Status, decidedAt time.Time) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.lookup(scope, id)
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if existing.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyDecided
	}
	existing.Status = status
	existing.DecidedAt = &decidedAt
	existing.UpdatedAt = decidedAt
	r.s.leaveRequests[id] = existing
	return existing, nil
}

func (r LeaveRequests) HasOverlap(ctx context.Context, scope tenant.Scope, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.leaveRequests {
		req, ok := r.lookup(scope, id)
		if !ok || id == excludeID || req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r LeaveRequests) HasApprovedLeave(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.leaveRequests {
		req, ok := r.lookup(scope, id)
		if ok && req.EmployeeID == employeeID && req.Status == leave.StatusApproved && req.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

type ApprovalRecords struct{ s *Store }

func (s *Store) ApprovalRecords() ApprovalRecords { return ApprovalRecords{s} }

func (r ApprovalRecords) Append(ctx context.Context, scope tenant.Scope, rec leave.ApprovalRecord) (leave.ApprovalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.leaveRequests[rec.LeaveRequestID]
	if !ok || !scope.Owns(req.CompanyID) {
		return leave.ApprovalRecord{}, leave.ErrLeaveRequestNotFound
	}
	rec.ID = newID()
	rec.CompanyID = scope.CompanyID()
	rec.CreatedAt = time.Now().UTC()
	r.s.records = append(r.s.records, rec)
	return rec, nil
}

func (r ApprovalRecords) ListByRequest(ctx context.Context, scope tenant.Scope, requestID string) ([]leave.ApprovalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []leave.ApprovalRecord
	for _, rec := range r.s.records {
		if rec.LeaveRequestID == requestID && scope.Owns(rec.CompanyID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type Balances struct{ s *Store }

func (s *Store) Balances() Balances { return Balances{s} }

func balanceKey(employeeID string, period int) string {
	return fmt.Sprintf("%s|%d", employeeID, period)
}

func (r Balances) Get(ctx context.Context, scope tenant.Scope, employeeID string, period int) (leave.VacationBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.balances[balanceKey(employeeID, period)]
	if !ok || !scope.Owns(b.CompanyID) {
		return leave.VacationBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r Balances) List(ctx context.Context, scope tenant.Scope, period int) ([]leave.VacationBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []leave.VacationBalance
	for _, b := range r.s.balances {
		if scope.Owns(b.CompanyID) && b.Period == period {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r Balances) SetAssigned(ctx context.Context, scope tenant.Scope, employeeID string, period, assignedDays int) (leave.VacationBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[employeeID]
	if !ok || !scope.Owns(emp.CompanyID) {
		return leave.VacationBalance{}, employee.ErrEmployeeNotFound
	}
	key := balanceKey(employeeID, period)
	b, ok := r.s.balances[key]
	if !ok {
		b = leave.VacationBalance{ID: newID(), CompanyID: scope.CompanyID(), EmployeeID: employeeID, Period: period}
	}
	if assignedDays < b.TakenDays {
		return leave.VacationBalance{}, leave.ErrAssignedBelowTaken
	}
	b.AssignedDays = assignedDays
	r.s.balances[key] = b
	return b, nil
}

func (r Balances) Consume(ctx context.Context, scope tenant.Scope, employeeID string, period, days int) (leave.VacationBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := balanceKey(employeeID, period)
	b, ok := r.s.balances[key]
	if !ok || !scope.Owns(b.CompanyID) || b.TakenDays+days > b.AssignedDays {
		return leave.VacationBalance{}, leave.ErrInsufficientBalance
	}
	b.TakenDays += days
	r.s.balances[key] = b
	return b, nil
}

// ===== Users =====

type Users struct{ s *Store }

func (s *Store) Users() Users { return Users{s} }

func (r Users) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r Users) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
		if newUser.EmployeeID != nil && u.EmployeeID != nil && *u.EmployeeID == *newUser.EmployeeID {
			return user.User{}, user.ErrEmployeeAlreadyLinked
		}
	}
	newUser.ID = newID()
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r Users) ListByCompany(ctx context.Context, scope tenant.Scope) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []user.User
	for _, u := range r.s.users {
		if u.CompanyID != nil && scope.Owns(*u.CompanyID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r Users) ExistsByEmployee(ctx context.Context, scope tenant.Scope, employeeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID && u.CompanyID != nil && scope.Owns(*u.CompanyID) {
			return true, nil
		}
	}
	return false, nil
}

// ===== Events =====

// Recorder is an event.Notifier and event.Auditor that keeps what it got.
type Recorder struct {
	mu            sync.Mutex
	Notifications []event.Notification
	Audits        []event.Audit
	NotifyErr     error
	AuditErr      error
}

func (r *Recorder) Notify(ctx context.Context, n event.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.NotifyErr != nil {
		return r.NotifyErr
	}
	r.Notifications = append(r.Notifications, n)
	return nil
}

func (r *Recorder) Record(ctx context.Context, a event.Audit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AuditErr != nil {
		return r.AuditErr
	}
	r.Audits = append(r.Audits, a)
	return nil
}

// Compile-time checks
var (
	_ company.CompanyRepository       = Companies{}
	_ tenant.SelectionRepository      = Selections{}
	_ employee.EmployeeRepository     = Employees{}
	_ orgunit.OrgUnitRepository       = OrgUnits{}
	_ attendance.EventRepository      = Events{}
	_ attendance.WorkdayRepository    = Workdays{}
	_ attendance.LeaveCalendar        = LeaveRequests{}
	_ leave.LeaveTypeRepository       = LeaveTypes{}
	_ leave.LeaveRequestRepository    = LeaveRequests{}
	_ leave.ApprovalRecordRepository  = ApprovalRecords{}
	_ leave.VacationBalanceRepository = Balances{}
	_ user.UserRepository             = Users{}
	_ event.Notifier                  = (*Recorder)(nil)
	_ event.Auditor                   = (*Recorder)(nil)
)
