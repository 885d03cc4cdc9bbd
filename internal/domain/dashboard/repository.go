package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// DashboardRepository defines the aggregate queries behind the dashboard.
// Each method is a single query so the service can run them in parallel.
type DashboardRepository interface {
	// CountWorkdaysByStatus counts stored workdays of date grouped by status.
	CountWorkdaysByStatus(ctx context.Context, scope tenant.Scope, date time.Time) (map[string]int, error)
	CountPendingLeave(ctx context.Context, scope tenant.Scope) (int, error)
	CountActiveEmployees(ctx context.Context, scope tenant.Scope) (int, error)
	// CountOnLeave counts employees with an approved request covering date.
	CountOnLeave(ctx context.Context, scope tenant.Scope, date time.Time) (int, error)
	// AverageMinutesLate averages minutes_late over late workdays in [from, to].
	AverageMinutesLate(ctx context.Context, scope tenant.Scope, from, to time.Time) (float64, error)
}
