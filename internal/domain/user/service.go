package user

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type UserService interface {
	Create(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req CreateUserRequest) (UserResponse, event.Events, error)
	List(ctx context.Context, actor tenant.Actor, scope tenant.Scope) ([]UserResponse, error)
}
