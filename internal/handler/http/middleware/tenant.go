package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
)

// CompanyHeader is the header form of the company_id selector.
const CompanyHeader = "X-Company-ID"

type contextKey string

const (
	actorKey contextKey = "actor"
	scopeKey contextKey = "scope"
)

// ActorFromClaims builds the actor an access token describes.
func ActorFromClaims(c jwt.Claims) tenant.Actor {
	return tenant.Actor{
		UserID:     c.UserID,
		Email:      c.Email,
		EmployeeID: c.EmployeeID,
		CompanyID:  c.CompanyID,
		Role:       c.Role,
		Global:     user.Role(c.Role).Global(),
	}
}

func WithActor(ctx context.Context, actor tenant.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (tenant.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(tenant.Actor)
	return actor, ok
}

func WithScope(ctx context.Context, scope tenant.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

func ScopeFromContext(ctx context.Context) (tenant.Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(tenant.Scope)
	return scope, ok && scope.Valid()
}

// Tenant resolves the company every downstream handler operates on. Scoped
// actors always get their own company; global actors select one with the
// company_id query parameter or the X-Company-ID header, or fall back to the
// one they selected last.
func Tenant(resolver tenant.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			explicit := r.URL.Query().Get("company_id")
			if explicit == "" {
				explicit = r.Header.Get(CompanyHeader)
			}

			scope, err := resolver.ResolveScope(r.Context(), actor, explicit)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}
