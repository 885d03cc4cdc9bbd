package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, company_id, recipient_employee_id, category, title, message, link, is_read, read_at, created_at`

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(
		&n.ID, &n.CompanyID, &n.RecipientEmployeeID, &n.Category, &n.Title, &n.Message,
		&n.Link, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	)
	return n, err
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) error {
	return r.CreateBatch(ctx, []notification.Notification{n})
}

// CreateBatch creates multiple notifications in a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	const cols = 8
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]any, 0, len(notifications)*cols)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}

		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		valueArgs = append(valueArgs,
			n.ID,
			n.CompanyID,
			n.RecipientEmployeeID,
			n.Category,
			n.Title,
			n.Message,
			n.Link,
			n.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, company_id, recipient_employee_id, category, title, message, link, created_at)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}

	return nil
}

// ListByRecipient retrieves notifications for an employee with pagination
func (r *notificationRepository) ListByRecipient(ctx context.Context, scope tenant.Scope, employeeID string, page, pageSize int, unreadOnly bool) ([]notification.Notification, int, error) {
	if err := checkScope(scope); err != nil {
		return nil, 0, err
	}
	q := GetQuerier(ctx, r.db)

	where := "company_id = $1 AND recipient_employee_id = $2"
	if unreadOnly {
		where += " AND NOT is_read"
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE "+where, scope.CompanyID(), employeeID).Scan(&total); err != nil {
		if isNotFound(err) {
			return []notification.Notification{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := q.Query(ctx,
		"SELECT "+notificationColumns+" FROM notifications WHERE "+where+" ORDER BY created_at DESC LIMIT $3 OFFSET $4",
		scope.CompanyID(), employeeID, pageSize, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0, pageSize)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

// GetUnreadCount returns the count of unread notifications for an employee
func (r *notificationRepository) GetUnreadCount(ctx context.Context, scope tenant.Scope, employeeID string) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE company_id = $1 AND recipient_employee_id = $2 AND NOT is_read`,
		scope.CompanyID(), employeeID,
	).Scan(&count)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}

// MarkAsRead marks the given notifications as read. Ids that belong to
// someone else are ignored.
func (r *notificationRepository) MarkAsRead(ctx context.Context, scope tenant.Scope, employeeID string, ids []string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE company_id = $1 AND recipient_employee_id = $2 AND NOT is_read AND id::text = ANY($3)
	`, scope.CompanyID(), employeeID, ids)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

// MarkAllAsRead marks all notifications as read for an employee
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, scope tenant.Scope, employeeID string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE company_id = $1 AND recipient_employee_id = $2 AND NOT is_read
	`, scope.CompanyID(), employeeID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}

// Delete deletes one notification of the employee
func (r *notificationRepository) Delete(ctx context.Context, scope tenant.Scope, employeeID, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND company_id = $2 AND recipient_employee_id = $3`,
		id, scope.CompanyID(), employeeID,
	)
	if err != nil {
		if isNotFound(err) {
			return notification.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}
