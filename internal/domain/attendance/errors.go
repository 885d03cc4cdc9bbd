package attendance

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrWorkdayNotFound   = apperror.New(apperror.ErrNotFound, "workday not found")
	ErrEventInFuture     = apperror.New(apperror.ErrValidation, "event time is in the future")
	ErrOutsideGeofence   = apperror.New(apperror.ErrValidation, "location is outside the office geofence")
	ErrDateNotComputable = apperror.New(apperror.ErrValidation, "date has not ended and has no events yet")
	ErrRangeTooLong      = apperror.New(apperror.ErrValidation, "date range must not exceed 92 days")
)
