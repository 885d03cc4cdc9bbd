package orgunit

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type OrgUnitService interface {
	Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (OrgUnitResponse, error)
	List(ctx context.Context, actor tenant.Actor, scope tenant.Scope) ([]OrgUnitResponse, error)
	Create(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req CreateOrgUnitRequest) (OrgUnitResponse, event.Events, error)
	Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req UpdateOrgUnitRequest) (OrgUnitResponse, event.Events, error)
	Delete(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (event.Events, error)
	// Approver returns the employee who approves requests of employeeID.
	Approver(ctx context.Context, scope tenant.Scope, employeeID string) (string, error)
}
