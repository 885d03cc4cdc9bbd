package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their kind. Only the
// domain message reaches the client, never the wrapping context.
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation carries details
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch apperror.Kind(err) {
	case apperror.ErrValidation:
		BadRequest(w, apperror.Message(err, "Invalid request"), nil)
	case apperror.ErrInvalidState:
		Conflict(w, apperror.Message(err, "Request conflicts with the current state"))
	case apperror.ErrNotFound:
		NotFound(w, "Resource not found")
	case apperror.ErrAuthorization:
		Forbidden(w, "Access denied")
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
