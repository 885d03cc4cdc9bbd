package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// Service defines the notification service interface
type Service interface {
	event.Notifier

	GetNotifications(ctx context.Context, actor tenant.Actor, scope tenant.Scope, page, pageSize int, unreadOnly bool) (NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, actor tenant.Actor, scope tenant.Scope) (int, error)
	MarkAsRead(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, actor tenant.Actor, scope tenant.Scope) error
	Delete(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) error

	// Subscribe streams notifications stored for employeeID until ctx ends.
	Subscribe(ctx context.Context, employeeID string) (<-chan StreamEvent, func())

	// Stop flushes queued notifications and stops the workers.
	Stop()
}
