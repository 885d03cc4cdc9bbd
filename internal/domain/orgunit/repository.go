package orgunit

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type OrgUnitRepository interface {
	GetByID(ctx context.Context, scope tenant.Scope, id string) (OrgUnit, error)
	List(ctx context.Context, scope tenant.Scope) ([]OrgUnit, error)
	Create(ctx context.Context, scope tenant.Scope, unit OrgUnit) (OrgUnit, error)
	Update(ctx context.Context, scope tenant.Scope, unit OrgUnit) (OrgUnit, error)
	Delete(ctx context.Context, scope tenant.Scope, id string) error
}

// LookupIn adapts a repository to the Lookup used by approver resolution.
func LookupIn(repo OrgUnitRepository, scope tenant.Scope) Lookup {
	return func(ctx context.Context, id string) (OrgUnit, error) {
		return repo.GetByID(ctx, scope, id)
	}
}
