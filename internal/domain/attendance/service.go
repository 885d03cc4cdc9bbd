package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type AttendanceService interface {
	// RecordEvent appends a punch and recomputes the workday it falls on.
	RecordEvent(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req RecordEventRequest) (RecordEventResponse, event.Events, error)
	ListEvents(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter EventFilter) ([]EventResponse, error)

	GetWorkday(ctx context.Context, actor tenant.Actor, scope tenant.Scope, employeeID string, date time.Time) (WorkdayResponse, error)
	ListWorkdays(ctx context.Context, actor tenant.Actor, scope tenant.Scope, filter WorkdayFilter) (ListWorkdayResponse, error)

	// Recompute rebuilds one workday from its events. Running it again with
	// the same events stores the same row.
	Recompute(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req RecomputeRequest) (WorkdayResponse, event.Events, error)
	// RecomputeDay recomputes date for every active employee of the tenant.
	RecomputeDay(ctx context.Context, actor tenant.Actor, scope tenant.Scope, date time.Time) (RecomputeDayResult, event.Events, error)
}
