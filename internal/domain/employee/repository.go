package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, scope tenant.Scope, id string) (Employee, error)
	List(ctx context.Context, scope tenant.Scope, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context, scope tenant.Scope) ([]Employee, error)
	Create(ctx context.Context, scope tenant.Scope, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, scope tenant.Scope, e Employee) (Employee, error)
	ExistsByCodeOrNationalID(ctx context.Context, scope tenant.Scope, code, nationalID string) (codeTaken, nationalIDTaken bool, err error)
}
