package tenant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// CompanyChecker reports whether a company exists.
type CompanyChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type ResolverImpl struct {
	companies  CompanyChecker
	selections tenant.SelectionRepository
}

func NewResolver(companies CompanyChecker, selections tenant.SelectionRepository) tenant.Resolver {
	return &ResolverImpl{
		companies:  companies,
		selections: selections,
	}
}

// ResolveScope implements tenant.Resolver.
func (s *ResolverImpl) ResolveScope(ctx context.Context, actor tenant.Actor, explicit string) (tenant.Scope, error) {
	var remembered string
	if actor.Global {
		var err error
		remembered, err = s.selections.Remembered(ctx, actor.UserID)
		if err != nil {
			return tenant.Scope{}, fmt.Errorf("failed to load tenant selection: %w", err)
		}
	}

	scope, err := tenant.Resolve(actor, explicit, remembered)
	if err != nil {
		return tenant.Scope{}, err
	}

	exists, err := s.companies.Exists(ctx, scope.CompanyID())
	if err != nil {
		return tenant.Scope{}, fmt.Errorf("failed to check company: %w", err)
	}
	if !exists {
		return tenant.Scope{}, tenant.ErrCompanyNotFound
	}

	if actor.Global && explicit != "" && scope.CompanyID() != remembered {
		if err := s.selections.Remember(ctx, actor.UserID, scope.CompanyID()); err != nil {
			// The request can proceed with the explicit selection.
			slog.Warn("failed to remember tenant selection", "user_id", actor.UserID, "error", err)
		}
	}

	return scope, nil
}
