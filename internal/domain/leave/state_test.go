package leave

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_FromPending(t *testing.T) {
	tests := []struct {
		action Action
		want   Status
	}{
		{ActionApprove, StatusApproved},
		{ActionReject, StatusRejected},
		{ActionReturn, StatusReturned},
	}
	for _, tt := range tests {
		got, err := Decide(StatusPending, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecide_DecidedRequestsAreFinal(t *testing.T) {
	for _, from := range []Status{StatusApproved, StatusRejected, StatusReturned} {
		for _, action := range []Action{ActionApprove, ActionReject, ActionReturn} {
			_, err := Decide(from, action)
			assert.True(t, errors.Is(err, apperror.ErrInvalidState), "%s -> %s", from, action)
		}
	}
}

func TestDecide_SubmitIsNotADecision(t *testing.T) {
	_, err := Decide(StatusPending, ActionSubmit)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestCheckModifiable(t *testing.T) {
	assert.NoError(t, CheckModifiable(StatusPending))
	for _, s := range []Status{StatusApproved, StatusRejected, StatusReturned} {
		assert.ErrorIs(t, CheckModifiable(s), ErrNotPending)
	}
}
