package leave

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound = apperror.New(apperror.ErrNotFound, "leave request not found")
	ErrLeaveTypeNotFound    = apperror.New(apperror.ErrNotFound, "leave type not found")
	ErrBalanceNotFound      = apperror.New(apperror.ErrNotFound, "vacation balance not found")
	ErrLeaveTypeNameExists  = apperror.New(apperror.ErrValidation, "leave type name already exists")
	ErrLeaveTypeInactive    = apperror.New(apperror.ErrValidation, "leave type is not active")
	ErrDocumentRequired     = apperror.New(apperror.ErrValidation, "document_ref is required for this leave type")
	ErrNoBusinessDays       = apperror.New(apperror.ErrValidation, "leave request covers no business days")
	ErrOverlappingRequest   = apperror.New(apperror.ErrValidation, "leave request overlaps another pending or approved request")
	ErrInsufficientBalance  = apperror.New(apperror.ErrValidation, "insufficient vacation balance")
	ErrAssignedBelowTaken   = apperror.New(apperror.ErrValidation, "assigned_days cannot be lower than days already taken")
	ErrNotApprover          = apperror.New(apperror.ErrAuthorization, "only the designated approver can decide this request")
	ErrNotRequestOwner      = apperror.New(apperror.ErrAuthorization, "not allowed to change this leave request")
)
