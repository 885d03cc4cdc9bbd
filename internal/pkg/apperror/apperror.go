package apperror

import "errors"

// Error kinds. Every domain error wraps exactly one of them so the HTTP layer
// can map it without knowing the domain.
var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidState  = errors.New("invalid state")
	ErrAuthorization = errors.New("authorization error")
	ErrNotFound      = errors.New("not found")
)

// Error is a domain error with a user-facing message and a kind.
type Error struct {
	kind    error
	message string
}

// New creates an error of the given kind. Error() returns message unchanged.
func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the kind an error belongs to, or nil when it has none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrInvalidState, ErrAuthorization, ErrNotFound} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the user-facing message of the innermost *Error in err's
// chain, dropping any context added by wrapping. fallback is returned when
// the chain holds none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.message
	}
	return fallback
}
