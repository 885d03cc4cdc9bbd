package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	companyID string
	date      time.Time
	actor     tenant.Actor
}

type stubRecomputer struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]error
}

func (s *stubRecomputer) RecomputeDay(ctx context.Context, actor tenant.Actor, scope tenant.Scope, date time.Time) (attendance.RecomputeDayResult, event.Events, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{companyID: scope.CompanyID(), date: date, actor: actor})
	if err := s.fail[scope.CompanyID()]; err != nil {
		return attendance.RecomputeDayResult{}, event.Events{}, err
	}
	var events event.Events
	events.Notify(event.Notification{CompanyID: scope.CompanyID(), RecipientEmployeeID: "emp"})
	return attendance.RecomputeDayResult{Date: date.Format("2006-01-02"), Computed: 1}, events, nil
}

type staticCompanies []company.Company

func (c staticCompanies) List(ctx context.Context) ([]company.Company, error) {
	return c, nil
}

type countingDispatcher struct {
	mu     sync.Mutex
	events []event.Events
}

func (d *countingDispatcher) Dispatch(ctx context.Context, events event.Events) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events)
	return nil
}

func TestRecomputePreviousDay_UsesTenantLocalHour(t *testing.T) {
	companies := staticCompanies{
		{ID: "jakarta", Timezone: "Asia/Jakarta"},  // UTC+7
		{ID: "bogota", Timezone: "America/Bogota"}, // UTC-5
		{ID: "utc", Timezone: "UTC"},
	}
	rec := &stubRecomputer{}
	disp := &countingDispatcher{}
	jobs := NewAttendanceJobs(rec, companies, disp, 1)

	// 18:30 UTC on 15 January is 01:30 on the 16th in Jakarta.
	jobs.now = func() time.Time { return time.Date(2026, time.January, 15, 18, 30, 0, 0, time.UTC) }
	require.NoError(t, jobs.RecomputePreviousDay(context.Background()))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "jakarta", rec.calls[0].companyID)
	assert.Equal(t, workcal.Date(2026, time.January, 15), rec.calls[0].date)
	assert.True(t, rec.calls[0].actor.Global)
	require.Len(t, disp.events, 1)
	assert.Len(t, disp.events[0].Notifications, 1)

	// 06:10 UTC on the 16th is 01:10 in Bogota.
	jobs.now = func() time.Time { return time.Date(2026, time.January, 16, 6, 10, 0, 0, time.UTC) }
	require.NoError(t, jobs.RecomputePreviousDay(context.Background()))

	require.Len(t, rec.calls, 2)
	assert.Equal(t, "bogota", rec.calls[1].companyID)
	assert.Equal(t, workcal.Date(2026, time.January, 15), rec.calls[1].date)
}

func TestRecomputePreviousDay_OncePerDate(t *testing.T) {
	rec := &stubRecomputer{}
	jobs := NewAttendanceJobs(rec, staticCompanies{{ID: "utc", Timezone: "UTC"}}, &countingDispatcher{}, 1)

	for _, minute := range []int{0, 15, 30, 45} {
		jobs.now = func() time.Time { return time.Date(2026, time.January, 16, 1, minute, 0, 0, time.UTC) }
		require.NoError(t, jobs.RecomputePreviousDay(context.Background()))
	}
	assert.Len(t, rec.calls, 1)
}

func TestRecomputePreviousDay_FailureIsRetried(t *testing.T) {
	boom := errors.New("connection reset")
	rec := &stubRecomputer{fail: map[string]error{"a": boom}}
	companies := staticCompanies{{ID: "a", Timezone: "UTC"}, {ID: "b", Timezone: "UTC"}}
	jobs := NewAttendanceJobs(rec, companies, &countingDispatcher{}, 1)
	jobs.now = func() time.Time { return time.Date(2026, time.January, 16, 1, 0, 0, 0, time.UTC) }

	err := jobs.RecomputePreviousDay(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.calls, 2, "one failing tenant does not block the others")

	rec.fail = nil
	require.NoError(t, jobs.RecomputePreviousDay(context.Background()))
	require.Len(t, rec.calls, 3)
	assert.Equal(t, "a", rec.calls[2].companyID)
}

func TestScheduler_RunOnce(t *testing.T) {
	rec := &stubRecomputer{}
	jobs := NewAttendanceJobs(rec, staticCompanies{{ID: "utc", Timezone: "UTC"}}, &countingDispatcher{}, 1)
	jobs.now = func() time.Time { return time.Date(2026, time.January, 16, 1, 5, 0, 0, time.UTC) }

	scheduler := NewScheduler(nil)
	jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(context.Background())

	assert.Len(t, rec.calls, 1)
}
