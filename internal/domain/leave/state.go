package leave

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrAlreadyDecided = apperror.New(apperror.ErrInvalidState, "leave request has already been decided")
	ErrNotPending     = apperror.New(apperror.ErrInvalidState, "leave request can only be changed while pending")
	ErrUnknownAction  = apperror.New(apperror.ErrValidation, "unknown approval action")
)

// decisions are the only transitions; every one leaves pending.
var decisions = map[Action]Status{
	ActionApprove: StatusApproved,
	ActionReject:  StatusRejected,
	ActionReturn:  StatusReturned,
}

// Decide returns the status reached by applying action to a request in
// status from.
func Decide(from Status, action Action) (Status, error) {
	to, ok := decisions[action]
	if !ok {
		return "", ErrUnknownAction
	}
	if from != StatusPending {
		return "", ErrAlreadyDecided
	}
	return to, nil
}

// CheckModifiable rejects edits and deletion outside pending.
func CheckModifiable(status Status) error {
	if status != StatusPending {
		return ErrNotPending
	}
	return nil
}
