package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	orgUnitRepo  orgunit.OrgUnitRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	orgUnitRepo orgunit.OrgUnitRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		orgUnitRepo:  orgUnitRepo,
	}
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (employee.EmployeeResponse, error) {
	if !user.Can(actor, user.PermissionEmployeeViewAll) && !actor.IsEmployee(id) {
		return employee.EmployeeResponse{}, user.ErrInsufficientPermissions
	}

	found, err := s.employeeRepo.GetByID(ctx, scope, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(found), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if !user.Can(actor, user.PermissionEmployeeViewAll) {
		return employee.ListEmployeeResponse{}, user.ErrInsufficientPermissions
	}
	filter.Normalize()

	employees, total, err := s.employeeRepo.List(ctx, scope, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		Employees:  responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionEmployeeManage) {
		return employee.EmployeeResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, events, err
	}

	codeTaken, nationalIDTaken, err := s.employeeRepo.ExistsByCodeOrNationalID(ctx, scope, req.EmployeeCode, req.NationalID)
	if err != nil {
		return employee.EmployeeResponse{}, events, fmt.Errorf("failed to check employee uniqueness: %w", err)
	}
	switch {
	case codeTaken:
		return employee.EmployeeResponse{}, events, employee.ErrEmployeeCodeExists
	case nationalIDTaken:
		return employee.EmployeeResponse{}, events, employee.ErrNationalIDExists
	}

	if req.OrgUnitID != nil {
		if _, err := s.orgUnitRepo.GetByID(ctx, scope, *req.OrgUnitID); err != nil {
			return employee.EmployeeResponse{}, events, err
		}
	}

	created, err := s.employeeRepo.Create(ctx, scope, req.ToEmployee(scope.CompanyID()))
	if err != nil {
		return employee.EmployeeResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "employee.create", "employee", created.ID, map[string]any{
		"employee_code": created.EmployeeCode,
	}))
	return employee.NewEmployeeResponse(created), events, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionEmployeeManage) {
		return employee.EmployeeResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, events, err
	}

	current, err := s.employeeRepo.GetByID(ctx, scope, id)
	if err != nil {
		return employee.EmployeeResponse{}, events, err
	}

	if req.OrgUnitID != nil && !req.ClearOrgUnit {
		if _, err := s.orgUnitRepo.GetByID(ctx, scope, *req.OrgUnitID); err != nil {
			return employee.EmployeeResponse{}, events, err
		}
	}

	changed, err := req.Apply(current)
	if err != nil {
		return employee.EmployeeResponse{}, events, err
	}

	stored, err := s.employeeRepo.Update(ctx, scope, changed)
	if err != nil {
		return employee.EmployeeResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "employee.update", "employee", stored.ID, nil))
	return employee.NewEmployeeResponse(stored), events, nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionEmployeeManage) {
		return events, user.ErrInsufficientPermissions
	}

	current, err := s.employeeRepo.GetByID(ctx, scope, id)
	if err != nil {
		return events, err
	}
	if !current.IsActive {
		return events, nil
	}

	current.IsActive = false
	if _, err := s.employeeRepo.Update(ctx, scope, current); err != nil {
		return events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "employee.deactivate", "employee", id, nil))
	return events, nil
}
