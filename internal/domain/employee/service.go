package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// Get returns an employee; employees without employee.view_all only see themselves.
	Get(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (EmployeeResponse, error)
	List(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter EmployeeFilter) (ListEmployeeResponse, error)
	Create(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req CreateEmployeeRequest) (EmployeeResponse, event.Events, error)
	Update(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string, req UpdateEmployeeRequest) (EmployeeResponse, event.Events, error)
	// Deactivate keeps the record and its history but stops attendance tracking.
	Deactivate(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) (event.Events, error)
}
