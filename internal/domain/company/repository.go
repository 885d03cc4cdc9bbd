package company

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type CompanyRepository interface {
	// Get returns the company a scope resolves to.
	Get(ctx context.Context, scope tenant.Scope) (Company, error)
	// Exists backs tenant resolution; it is the only lookup by raw id.
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, scope tenant.Scope, c Company) (Company, error)
}
