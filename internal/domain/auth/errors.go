package auth

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.ErrValidation, "invalid email or password")
	ErrInvalidToken       = apperror.New(apperror.ErrAuthorization, "invalid token")
)
