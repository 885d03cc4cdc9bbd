package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns the KPI snapshot for the tenant's current local day
	GetDashboard(ctx context.Context, actor tenant.Actor, scope tenant.Scope) (DashboardResponse, error)
}
