package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue    chan notification.Notification
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	// mu orders enqueues before the shutdown drain.
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	// Set defaults
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// worker drains the queue in batches
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("failed to batch insert notifications", "worker", id, "count", len(batch), "error", err)
		} else {
			slog.Debug("inserted notifications", "worker", id, "count", len(batch))
			for _, n := range batch {
				s.publish(n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case n := <-s.queue:
					batch = append(batch, n)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Notify implements event.Notifier. The notification is queued for the
// workers; once stopped, or when the queue is full, it is inserted directly.
func (s *service) Notify(ctx context.Context, e event.Notification) error {
	if e.RecipientEmployeeID == "" {
		return notification.ErrNoRecipient
	}

	n := notification.Notification{
		ID:                  uuid.New().String(),
		CompanyID:           e.CompanyID,
		RecipientEmployeeID: e.RecipientEmployeeID,
		Category:            e.Category,
		Title:               e.Title,
		Message:             e.Message,
		CreatedAt:           time.Now().UTC(),
	}
	if e.Link != "" {
		link := e.Link
		n.Link = &link
	}

	s.mu.RLock()
	if !s.stopped {
		select {
		case s.queue <- n:
			s.mu.RUnlock()
			return nil
		default:
		}
	}
	s.mu.RUnlock()

	// Stopped or queue full
	return s.directInsert(ctx, n)
}

// directInsert stores a notification synchronously
func (s *service) directInsert(ctx context.Context, n notification.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.publish(n)
	return nil
}

func (s *service) publish(n notification.Notification) {
	s.hub.Publish(sse.Event{
		Recipient: n.RecipientEmployeeID,
		Name:      "notification",
		Data:      notification.NewNotificationResponse(n),
	})
}

// GetNotifications retrieves paginated notifications for the actor
func (s *service) GetNotifications(ctx context.Context, actor tenant.Actor, scope tenant.Scope, page, pageSize int, unreadOnly bool) (notification.NotificationListResponse, error) {
	if actor.EmployeeID == nil {
		return notification.NotificationListResponse{}, notification.ErrNoRecipient
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.ListByRecipient(ctx, scope, *actor.EmployeeID, page, pageSize, unreadOnly)
	if err != nil {
		return notification.NotificationListResponse{}, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, scope, *actor.EmployeeID)
	if err != nil {
		return notification.NotificationListResponse{}, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.NewNotificationResponse(n)
	}

	return notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, actor tenant.Actor, scope tenant.Scope) (int, error) {
	if actor.EmployeeID == nil {
		return 0, notification.ErrNoRecipient
	}
	return s.repo.GetUnreadCount(ctx, scope, *actor.EmployeeID)
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req notification.MarkAsReadRequest) error {
	if actor.EmployeeID == nil {
		return notification.ErrNoRecipient
	}
	if len(req.NotificationIDs) == 0 {
		return notification.ErrNoNotificationIDs
	}
	return s.repo.MarkAsRead(ctx, scope, *actor.EmployeeID, req.NotificationIDs)
}

// MarkAllAsRead marks all notifications of the actor as read
func (s *service) MarkAllAsRead(ctx context.Context, actor tenant.Actor, scope tenant.Scope) error {
	if actor.EmployeeID == nil {
		return notification.ErrNoRecipient
	}
	return s.repo.MarkAllAsRead(ctx, scope, *actor.EmployeeID)
}

// Delete removes a notification
func (s *service) Delete(ctx context.Context, actor tenant.Actor, scope tenant.Scope, id string) error {
	if actor.EmployeeID == nil {
		return notification.ErrNoRecipient
	}
	return s.repo.Delete(ctx, scope, *actor.EmployeeID, id)
}

// Subscribe creates an SSE subscription for an employee
func (s *service) Subscribe(ctx context.Context, employeeID string) (<-chan notification.StreamEvent, func()) {
	ch, cleanup := s.hub.Subscribe(employeeID)

	out := make(chan notification.StreamEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case e, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := e.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.StreamEvent{Event: e.Name, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		close(s.stopCh)
		s.mu.Unlock()

		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
