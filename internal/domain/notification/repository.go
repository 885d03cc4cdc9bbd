package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, n Notification) error
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByRecipient(ctx context.Context, scope tenant.Scope, employeeID string, page, pageSize int, unreadOnly bool) ([]Notification, int, error)
	GetUnreadCount(ctx context.Context, scope tenant.Scope, employeeID string) (int, error)
	MarkAsRead(ctx context.Context, scope tenant.Scope, employeeID string, ids []string) error
	MarkAllAsRead(ctx context.Context, scope tenant.Scope, employeeID string) error
	Delete(ctx context.Context, scope tenant.Scope, employeeID, id string) error
}
