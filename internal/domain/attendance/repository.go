package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type EventRepository interface {
	Append(ctx context.Context, scope tenant.Scope, e Event) (Event, error)
	// ListForEmployee returns events with from <= occurred_at < to.
	ListForEmployee(ctx context.Context, scope tenant.Scope, employeeID string, from, to time.Time) ([]Event, error)
	List(ctx context.Context, scope tenant.Scope, filter EventFilter) ([]Event, error)
}

type WorkdayRepository interface {
	// Upsert stores w keyed by (employee, date) in one atomic statement and
	// returns the stored row with the status it had before, "" if new.
	Upsert(ctx context.Context, scope tenant.Scope, w Workday) (stored Workday, previous Status, err error)
	Get(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (Workday, error)
	List(ctx context.Context, scope tenant.Scope, filter WorkdayFilter) ([]Workday, int64, error)
}

// LeaveCalendar answers whether approved leave covers a date.
type LeaveCalendar interface {
	HasApprovedLeave(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (bool, error)
}
