package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu     sync.Mutex
	stored []notification.Notification
}

func (m *memoryRepo) Create(ctx context.Context, n notification.Notification) error {
	return m.CreateBatch(ctx, []notification.Notification{n})
}

func (m *memoryRepo) CreateBatch(ctx context.Context, ns []notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = append(m.stored, ns...)
	return nil
}

func (m *memoryRepo) ListByRecipient(ctx context.Context, scope tenant.Scope, employeeID string, page, pageSize int, unreadOnly bool) ([]notification.Notification, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Notification
	for _, n := range m.stored {
		if scope.Owns(n.CompanyID) && n.RecipientEmployeeID == employeeID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetUnreadCount(ctx context.Context, scope tenant.Scope, employeeID string) (int, error) {
	unread, _, err := m.ListByRecipient(ctx, scope, employeeID, 1, 100, true)
	return len(unread), err
}

func (m *memoryRepo) MarkAsRead(ctx context.Context, scope tenant.Scope, employeeID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.stored {
		for _, id := range ids {
			if n.ID == id && n.RecipientEmployeeID == employeeID && scope.Owns(n.CompanyID) {
				m.stored[i].IsRead = true
			}
		}
	}
	return nil
}

func (m *memoryRepo) MarkAllAsRead(ctx context.Context, scope tenant.Scope, employeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.stored {
		if n.RecipientEmployeeID == employeeID && scope.Owns(n.CompanyID) {
			m.stored[i].IsRead = true
		}
	}
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, scope tenant.Scope, employeeID, id string) error {
	return nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

func leaveNotice(recipient string) event.Notification {
	return event.Notification{
		CompanyID:           "company-a",
		RecipientEmployeeID: recipient,
		Category:            event.CategoryLeave,
		Title:               "Leave request approved",
		Message:             "Your leave request was approved.",
		Link:                "/leave/requests/r1",
	}
}

func TestNotify_FlushedOnStop(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, sse.NewHub(4), Config{FlushInterval: time.Hour})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(context.Background(), leaveNotice("emp-1")))
	}
	svc.Stop()

	assert.Equal(t, 3, repo.count())

	// After Stop notifications are stored synchronously.
	require.NoError(t, svc.Notify(context.Background(), leaveNotice("emp-1")))
	assert.Equal(t, 4, repo.count())
	svc.Stop()
}

func TestNotify_ConcurrentWithStopLosesNothing(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, sse.NewHub(4), Config{FlushInterval: time.Hour, QueueSize: 8})

	const senders, perSender = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				assert.NoError(t, svc.Notify(context.Background(), leaveNotice("emp-1")))
			}
		}()
	}

	svc.Stop()
	wg.Wait()

	assert.Equal(t, senders*perSender, repo.count())
}

func TestNotify_RequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&memoryRepo{}, sse.NewHub(4), Config{})
	defer svc.Stop()

	err := svc.Notify(context.Background(), event.Notification{CompanyID: "company-a"})
	assert.ErrorIs(t, err, notification.ErrNoRecipient)
}

func TestSubscribe_ReceivesStoredNotification(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, sse.NewHub(4), Config{FlushInterval: 10 * time.Millisecond})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream, closeStream := svc.Subscribe(ctx, "emp-1")
	defer closeStream()

	require.NoError(t, svc.Notify(context.Background(), leaveNotice("emp-1")))

	select {
	case e := <-stream:
		assert.Equal(t, "notification", e.Event)
		assert.Equal(t, "Leave request approved", e.Data.Title)
		require.NotNil(t, e.Data.Link)
		assert.Equal(t, "/leave/requests/r1", *e.Data.Link)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}
}

func TestReadState(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	svc := NewNotificationService(repo, sse.NewHub(4), Config{FlushInterval: time.Hour})

	require.NoError(t, svc.Notify(ctx, leaveNotice("emp-1")))
	require.NoError(t, svc.Notify(ctx, leaveNotice("emp-1")))
	require.NoError(t, svc.Notify(ctx, leaveNotice("emp-2")))
	svc.Stop()

	emp := "emp-1"
	actor := tenant.Actor{UserID: "u1", EmployeeID: &emp, Role: "employee"}
	scope := tenant.NewScope("company-a")

	list, err := svc.GetNotifications(ctx, actor, scope, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 2, list.UnreadCount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.PageSize)

	require.NoError(t, svc.MarkAsRead(ctx, actor, scope, notification.MarkAsReadRequest{NotificationIDs: []string{list.Notifications[0].ID}}))
	unread, err := svc.GetUnreadCount(ctx, actor, scope)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, svc.MarkAllAsRead(ctx, actor, scope))
	unread, err = svc.GetUnreadCount(ctx, actor, scope)
	require.NoError(t, err)
	assert.Zero(t, unread)

	err = svc.MarkAsRead(ctx, actor, scope, notification.MarkAsReadRequest{})
	assert.ErrorIs(t, err, notification.ErrNoNotificationIDs)

	_, err = svc.GetNotifications(ctx, tenant.Actor{UserID: "admin", Role: "super_admin", Global: true}, scope, 1, 20, false)
	assert.ErrorIs(t, err, notification.ErrNoRecipient)
}
