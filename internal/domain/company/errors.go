package company

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrCompanyNotFound       = apperror.New(apperror.ErrNotFound, "company not found")
	ErrCompanyUsernameExists = apperror.New(apperror.ErrValidation, "company username already exists")
	ErrIncompleteGeofence    = apperror.New(apperror.ErrValidation, "office_latitude, office_longitude and geofence_radius_meters must be set together")
)
