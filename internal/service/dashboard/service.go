package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	companyRepo company.CompanyRepository
	now         func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, companyRepo company.CompanyRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		companyRepo:         companyRepo,
		now:                 time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines.
// Each goroutine runs one query.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, actor tenant.Actor, scope tenant.Scope) (dashboard.DashboardResponse, error) {
	if !user.Can(actor, user.PermissionDashboardView) {
		return dashboard.DashboardResponse{}, user.ErrInsufficientPermissions
	}

	c, err := s.companyRepo.Get(ctx, scope)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	now := s.now()
	today := workcal.DateOf(now, c.Location())
	monthStart := workcal.Date(today.Year(), today.Month(), 1)

	var (
		byStatus    map[string]int
		pending     int
		active      int
		onLeave     int
		averageLate float64
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's workdays per status
	g.Go(func() error {
		var err error
		byStatus, err = s.CountWorkdaysByStatus(gCtx, scope, today)
		return err
	})

	// 2. Pending leave requests
	g.Go(func() error {
		var err error
		pending, err = s.CountPendingLeave(gCtx, scope)
		return err
	})

	// 3. Active employees
	g.Go(func() error {
		var err error
		active, err = s.CountActiveEmployees(gCtx, scope)
		return err
	})

	// 4. Employees on approved leave today
	g.Go(func() error {
		var err error
		onLeave, err = s.CountOnLeave(gCtx, scope, today)
		return err
	})

	// 5. Average lateness this month
	g.Go(func() error {
		var err error
		averageLate, err = s.AverageMinutesLate(gCtx, scope, monthStart, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	if byStatus == nil {
		byStatus = map[string]int{}
	}
	return dashboard.DashboardResponse{
		Date:               today.Format("2006-01-02"),
		WorkdaysByStatus:   byStatus,
		PendingLeave:       pending,
		ActiveEmployees:    active,
		OnLeaveToday:       onLeave,
		AverageMinutesLate: averageLate,
		GeneratedAt:        now.UTC(),
	}, nil
}
