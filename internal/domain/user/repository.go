package user

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type UserRepository interface {
	// GetByEmail looks a login up across all companies; it backs sign-in only.
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ListByCompany(ctx context.Context, scope tenant.Scope) ([]User, error)
	ExistsByEmployee(ctx context.Context, scope tenant.Scope, employeeID string) (bool, error)
}
