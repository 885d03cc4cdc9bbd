package employee

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound     = apperror.New(apperror.ErrNotFound, "employee not found")
	ErrEmployeeCodeExists   = apperror.New(apperror.ErrValidation, "employee code already exists")
	ErrNationalIDExists     = apperror.New(apperror.ErrValidation, "national id already registered")
	ErrEmployeeInactive     = apperror.New(apperror.ErrInvalidState, "employee is inactive")
	ErrShiftEndsBeforeStart = apperror.New(apperror.ErrValidation, "shift_end must be after shift_start")
	ErrNoEmployeeProfile    = apperror.New(apperror.ErrValidation, "actor has no employee profile")
)
