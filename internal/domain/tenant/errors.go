package tenant

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrNoTenantSelected = apperror.New(apperror.ErrValidation, "select a company with the company_id parameter")
	ErrActorNotBound    = apperror.New(apperror.ErrAuthorization, "actor is not bound to a company")
	ErrInvalidScope     = apperror.New(apperror.ErrAuthorization, "tenant scope is required")
	ErrCompanyNotFound  = apperror.New(apperror.ErrNotFound, "company not found")
)
