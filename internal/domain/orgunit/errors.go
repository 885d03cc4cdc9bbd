package orgunit

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrOrgUnitNotFound      = apperror.New(apperror.ErrNotFound, "org unit not found")
	ErrOrgUnitNameExists    = apperror.New(apperror.ErrValidation, "org unit name already exists")
	ErrParentCycle          = apperror.New(apperror.ErrValidation, "parent_id would create a cycle")
	ErrNoApproverConfigured = apperror.New(apperror.ErrValidation, "no approver configured for this employee")
)
