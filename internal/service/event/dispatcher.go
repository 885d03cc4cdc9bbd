package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
)

type DispatcherImpl struct {
	notifier event.Notifier
	auditor  event.Auditor
}

func NewDispatcher(notifier event.Notifier, auditor event.Auditor) event.Dispatcher {
	return &DispatcherImpl{
		notifier: notifier,
		auditor:  auditor,
	}
}

// Dispatch records every audit and sends every notification. Notification
// failures are logged and dropped; audit failures are returned joined.
func (d *DispatcherImpl) Dispatch(ctx context.Context, events event.Events) error {
	var errs []error
	for _, a := range events.Audits {
		if err := d.auditor.Record(ctx, a); err != nil {
			errs = append(errs, fmt.Errorf("audit %s %s/%s: %w", a.Action, a.EntityType, a.EntityID, err))
		}
	}

	for _, n := range events.Notifications {
		if err := d.notifier.Notify(ctx, n); err != nil {
			slog.Warn("failed to send notification",
				"recipient_employee_id", n.RecipientEmployeeID,
				"category", n.Category,
				"error", err,
			)
		}
	}

	return errors.Join(errs...)
}
