package orgunit

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
)

type OrgUnitServiceImpl struct {
	orgUnitRepo  orgunit.OrgUnitRepository
	employeeRepo employee.EmployeeRepository
}

func NewOrgUnitService(orgUnitRepo orgunit.OrgUnitRepository, employeeRepo employee.EmployeeRepository) orgunit.OrgUnitService {
	return &OrgUnitServiceImpl{
		orgUnitRepo:  orgUnitRepo,
		employeeRepo: employeeRepo,
	}
}

// Get implements orgunit.OrgUnitService.
func (s *OrgUnitServiceImpl) Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (orgunit.OrgUnitResponse, error) {
	unit, err := s.orgUnitRepo.GetByID(ctx, scope, id)
	if err != nil {
		return orgunit.OrgUnitResponse{}, err
	}
	return orgunit.NewOrgUnitResponse(unit), nil
}

// List implements orgunit.OrgUnitService.
func (s *OrgUnitServiceImpl) List(ctx context.Context, actor tenant.Actor, scope tenant.Scope) ([]orgunit.OrgUnitResponse, error) {
	units, err := s.orgUnitRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list org units: %w", err)
	}

	responses := make([]orgunit.OrgUnitResponse, 0, len(units))
	for _, u := range units {
		responses = append(responses, orgunit.NewOrgUnitResponse(u))
	}
	return responses, nil
}

// Create implements orgunit.OrgUnitService.
func (s *OrgUnitServiceImpl) Create(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req orgunit.CreateOrgUnitRequest) (orgunit.OrgUnitResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionOrgUnitManage) {
		return orgunit.OrgUnitResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}
	if err := s.checkReferences(ctx, scope, req.ParentID, req.ManagerEmployeeID); err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}

	created, err := s.orgUnitRepo.Create(ctx, scope, orgunit.OrgUnit{
		CompanyID:         scope.CompanyID(),
		ParentID:          req.ParentID,
		Name:              req.Name,
		ManagerEmployeeID: req.ManagerEmployeeID,
	})
	if err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "orgunit.create", "org_unit", created.ID, map[string]any{
		"name": created.Name,
	}))
	return orgunit.NewOrgUnitResponse(created), events, nil
}

// Update implements orgunit.OrgUnitService.
func (s *OrgUnitServiceImpl) Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req orgunit.UpdateOrgUnitRequest) (orgunit.OrgUnitResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionOrgUnitManage) {
		return orgunit.OrgUnitResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}

	current, err := s.orgUnitRepo.GetByID(ctx, scope, id)
	if err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}
	if err := s.checkReferences(ctx, scope, req.ParentID, req.ManagerEmployeeID); err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}
	if req.ParentID != nil {
		if err := orgunit.CheckParent(ctx, orgunit.LookupIn(s.orgUnitRepo, scope), id, *req.ParentID); err != nil {
			return orgunit.OrgUnitResponse{}, events, err
		}
	}

	current.Name = req.Name
	current.ParentID = req.ParentID
	current.ManagerEmployeeID = req.ManagerEmployeeID

	stored, err := s.orgUnitRepo.Update(ctx, scope, current)
	if err != nil {
		return orgunit.OrgUnitResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "orgunit.update", "org_unit", stored.ID, nil))
	return orgunit.NewOrgUnitResponse(stored), events, nil
}

// Delete implements orgunit.OrgUnitService.
func (s *OrgUnitServiceImpl) Delete(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionOrgUnitManage) {
		return events, user.ErrInsufficientPermissions
	}

	if err := s.orgUnitRepo.Delete(ctx, scope, id); err != nil {
		return events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "orgunit.delete", "org_unit", id, nil))
	return events, nil
}

// Approver implements orgunit.OrgUnitService.
func (s *OrgUnitServiceImpl) Approver(ctx context.Context, scope tenant.Scope, employeeID string) (string, error) {
	emp, err := s.employeeRepo.GetByID(ctx, scope, employeeID)
	if err != nil {
		return "", err
	}
	return orgunit.ResolveApprover(ctx, orgunit.LookupIn(s.orgUnitRepo, scope), emp.ID, emp.OrgUnitID)
}

// checkReferences makes sure parent and manager belong to the same tenant.
func (s *OrgUnitServiceImpl) checkReferences(ctx context.Context, scope tenant.Scope, parentID, managerID *string) error {
	if parentID != nil {
		if _, err := s.orgUnitRepo.GetByID(ctx, scope, *parentID); err != nil {
			return err
		}
	}
	if managerID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, scope, *managerID); err != nil {
			return err
		}
	}
	return nil
}
