package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

// Get handles GET /dashboard
func (h *dashboardHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), actor, scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
