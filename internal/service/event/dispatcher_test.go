package event

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() event.Events {
	var events event.Events
	events.Notify(event.Notification{CompanyID: "c1", RecipientEmployeeID: "e1", Category: event.CategoryLeave, Title: "t"})
	events.Record(event.NewAudit("c1", "u1", "leave_request.approve", "leave_request", "r1", nil))
	return events
}

func TestDispatch_DeliversEverything(t *testing.T) {
	rec := &testutil.Recorder{}
	err := NewDispatcher(rec, rec).Dispatch(context.Background(), sample())

	require.NoError(t, err)
	assert.Len(t, rec.Notifications, 1)
	require.Len(t, rec.Audits, 1)
	assert.Equal(t, "c1", *rec.Audits[0].CompanyID)
}

func TestDispatch_NotificationFailureIsIgnored(t *testing.T) {
	notifier := &testutil.Recorder{NotifyErr: errors.New("queue closed")}
	auditor := &testutil.Recorder{}

	err := NewDispatcher(notifier, auditor).Dispatch(context.Background(), sample())

	assert.NoError(t, err)
	assert.Len(t, auditor.Audits, 1)
}

func TestDispatch_AuditFailureIsReturned(t *testing.T) {
	boom := errors.New("disk full")
	notifier := &testutil.Recorder{}
	auditor := &testutil.Recorder{AuditErr: boom}

	err := NewDispatcher(notifier, auditor).Dispatch(context.Background(), sample())

	assert.ErrorIs(t, err, boom)
	assert.Len(t, notifier.Notifications, 1, "notifications still go out")
}

func TestDispatch_Empty(t *testing.T) {
	rec := &testutil.Recorder{}
	assert.NoError(t, NewDispatcher(rec, rec).Dispatch(context.Background(), event.Events{}))
}
