package user

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrUserNotFound            = apperror.New(apperror.ErrNotFound, "user not found")
	ErrUserEmailExists         = apperror.New(apperror.ErrValidation, "email already registered")
	ErrInsufficientPermissions = apperror.New(apperror.ErrAuthorization, "insufficient permissions")
	ErrEmployeeAlreadyLinked   = apperror.New(apperror.ErrValidation, "employee already has a login")
	ErrRoleNotAssignable       = apperror.New(apperror.ErrValidation, "role cannot be assigned by this actor")
)
