package company

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	tx            database.Transactor
	leaveTypeRepo leave.LeaveTypeRepository
}

func NewCompanyService(tx database.Transactor, companyRepository company.CompanyRepository, leaveTypeRepo leave.LeaveTypeRepository) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		tx:                tx,
		leaveTypeRepo:     leaveTypeRepo,
	}
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context, actor tenant.Actor) ([]company.CompanyResponse, error) {
	if !user.Can(actor, user.PermissionCompanyCreate) {
		return nil, user.ErrInsufficientPermissions
	}

	companies, err := c.CompanyRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	responses := make([]company.CompanyResponse, 0, len(companies))
	for _, found := range companies {
		responses = append(responses, company.NewCompanyResponse(found))
	}
	return responses, nil
}

// Create implements company.CompanyService.
func (c *CompanyServiceImpl) Create(ctx context.Context, actor tenant.Actor, req company.CreateCompanyRequest) (company.CompanyResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionCompanyCreate) {
		return company.CompanyResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, events, err
	}

	var created company.Company
	err := c.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.CompanyRepository.Create(ctx, company.Company{
			Name:             req.Name,
			Username:         req.Username,
			Timezone:         req.Timezone,
			ToleranceMinutes: req.ToleranceMinutes,
		})
		if err != nil {
			return err
		}

		scope := tenant.NewScope(created.ID)
		for _, lt := range fixtures.DefaultLeaveTypes(created.ID) {
			if _, err := c.leaveTypeRepo.Create(ctx, scope, lt); err != nil {
				return fmt.Errorf("failed to seed leave type %q: %w", lt.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return company.CompanyResponse{}, events, err
	}

	events.Record(event.NewAudit(created.ID, actor.UserID, "company.create", "company", created.ID, map[string]any{
		"username": created.Username,
		"timezone": created.Timezone,
	}))
	return company.NewCompanyResponse(created), events, nil
}

// Get implements company.CompanyService.
func (c *CompanyServiceImpl) Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope) (company.CompanyResponse, error) {
	if !user.Can(actor, user.PermissionCompanyView) {
		return company.CompanyResponse{}, user.ErrInsufficientPermissions
	}

	found, err := c.CompanyRepository.Get(ctx, scope)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(found), nil
}

// Update implements company.CompanyService.
func (c *CompanyServiceImpl) Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req company.UpdateCompanyRequest) (company.CompanyResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionCompanyManage) {
		return company.CompanyResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, events, err
	}

	current, err := c.CompanyRepository.Get(ctx, scope)
	if err != nil {
		return company.CompanyResponse{}, events, err
	}

	changed, err := req.Apply(current)
	if err != nil {
		return company.CompanyResponse{}, events, err
	}

	stored, err := c.CompanyRepository.Update(ctx, scope, changed)
	if err != nil {
		return company.CompanyResponse{}, events, err
	}

	events.Record(event.NewAudit(scope.CompanyID(), actor.UserID, "company.update", "company", stored.ID, map[string]any{
		"timezone":                     stored.Timezone,
		"attendance_tolerance_minutes": stored.ToleranceMinutes,
	}))
	return company.NewCompanyResponse(stored), events, nil
}
