package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, actor tenant.Actor) (MeResponse, error)
}
