package company

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type CompanyService interface {
	List(ctx context.Context, actor tenant.Actor) ([]CompanyResponse, error)
	Create(ctx context.Context, actor tenant.Actor, req CreateCompanyRequest) (CompanyResponse, event.Events, error)
	Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope) (CompanyResponse, error)
	Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req UpdateCompanyRequest) (CompanyResponse, event.Events, error)
}
