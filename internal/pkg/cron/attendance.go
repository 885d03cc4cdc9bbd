package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
)

// DayRecomputer recomputes one tenant date for every active employee.
type DayRecomputer interface {
	RecomputeDay(ctx context.Context, actor tenant.Actor, scope tenant.Scope, date time.Time) (attendance.RecomputeDayResult, event.Events, error)
}

// CompanyLister lists every tenant.
type CompanyLister interface {
	List(ctx context.Context) ([]company.Company, error)
}

type AttendanceJobs struct {
	recomputer DayRecomputer
	companies  CompanyLister
	dispatcher event.Dispatcher
	localHour  int
	now        func() time.Time

	mu   sync.Mutex
	done map[string]time.Time // company id -> last date recomputed
}

// NewAttendanceJobs builds the nightly attendance jobs. localHour is the hour
// of the tenant's own clock at which the previous day is closed.
func NewAttendanceJobs(recomputer DayRecomputer, companies CompanyLister, dispatcher event.Dispatcher, localHour int) *AttendanceJobs {
	return &AttendanceJobs{
		recomputer: recomputer,
		companies:  companies,
		dispatcher: dispatcher,
		localHour:  localHour,
		now:        time.Now,
		done:       make(map[string]time.Time),
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	// Tenants sit in different zones, so the job wakes often enough to
	// catch each one's local hour.
	scheduler.AddJob("recompute_previous_day", 15*time.Minute, j.RecomputePreviousDay)
}

// RecomputePreviousDay closes yesterday for every tenant whose local clock
// currently reads localHour. Each tenant date is processed once.
func (j *AttendanceJobs) RecomputePreviousDay(ctx context.Context) error {
	companies, err := j.companies.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	now := j.now()
	var errs []error
	for _, c := range companies {
		local := now.In(c.Location())
		if local.Hour() != j.localHour {
			continue
		}
		yesterday := workcal.AddDays(workcal.DateOf(now, c.Location()), -1)
		if j.alreadyDone(c.ID, yesterday) {
			continue
		}

		if err := j.recomputeCompany(ctx, c, yesterday); err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", c.ID, err))
			continue
		}
		j.markDone(c.ID, yesterday)
	}

	return errors.Join(errs...)
}

func (j *AttendanceJobs) recomputeCompany(ctx context.Context, c company.Company, date time.Time) error {
	scope := tenant.NewScope(c.ID)

	result, events, err := j.recomputer.RecomputeDay(ctx, tenant.System(), scope, date)
	if err != nil {
		return err
	}

	if err := j.dispatcher.Dispatch(ctx, events); err != nil {
		// The workdays are stored; only the side effects failed.
		slog.Error("Cron: failed to dispatch attendance events", "company_id", c.ID, "error", err)
	}

	slog.Info("Cron: recomputed previous day",
		"company_id", c.ID,
		"date", result.Date,
		"computed", result.Computed,
		"skipped", result.Skipped,
		"notifications", len(events.Notifications),
	)
	return nil
}

func (j *AttendanceJobs) alreadyDone(companyID string, date time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	last, ok := j.done[companyID]
	return ok && !last.Before(date)
}

func (j *AttendanceJobs) markDone(companyID string, date time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.done[companyID] = date
}
