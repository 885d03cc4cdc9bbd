package notification

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

// Notification domain errors
var (
	ErrNotificationNotFound = apperror.New(apperror.ErrNotFound, "notification not found")
	ErrNoRecipient          = apperror.New(apperror.ErrValidation, "notifications belong to an employee profile")
	ErrNoNotificationIDs    = apperror.New(apperror.ErrValidation, "notification_ids is required")
)
