package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"github.com/cmlabs-hris/hris-workforce-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkdayUpsert_OneRowPerDay(t *testing.T) {
	ctx := context.Background()
	scope := newCompany(t)
	emp := newEmployee(t, scope, "E-1")
	repo := postgresql.NewAttendanceWorkdayRepository(testDB)

	in := time.Date(2026, time.January, 16, 13, 15, 0, 0, time.UTC)
	w := attendance.Workday{
		EmployeeID:  emp.ID,
		WorkDate:    workcal.Date(2026, time.January, 16),
		FirstIn:     &in,
		MinutesLate: 15,
		Status:      attendance.StatusLate,
	}

	first, prev, err := repo.Upsert(ctx, scope, w)
	require.NoError(t, err)
	assert.Equal(t, attendance.Status(""), prev)

	second, prev, err := repo.Upsert(ctx, scope, w)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, prev)
	assert.Equal(t, first.ID, second.ID)

	list, total, err := repo.List(ctx, scope, attendance.WorkdayFilter{
		EmployeeID: &emp.ID,
		From:       w.WorkDate,
		To:         w.WorkDate,
		Page:       1,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, 15, list[0].MinutesLate)
}

func TestWorkday_CrossTenantIsNotFound(t *testing.T) {
	ctx := context.Background()
	owner := newCompany(t)
	other := newCompany(t)
	emp := newEmployee(t, owner, "E-1")
	repo := postgresql.NewAttendanceWorkdayRepository(testDB)

	date := workcal.Date(2026, time.January, 16)
	_, _, err := repo.Upsert(ctx, owner, attendance.Workday{EmployeeID: emp.ID, WorkDate: date, Status: attendance.StatusAbsent})
	require.NoError(t, err)

	_, err = repo.Get(ctx, other, emp.ID, date)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, _, err = repo.Upsert(ctx, other, attendance.Workday{EmployeeID: emp.ID, WorkDate: date, Status: attendance.StatusOnTime})
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))

	stored, err := repo.Get(ctx, owner, emp.ID, date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, stored.Status)
}

func TestEventAppend_RejectsForeignEmployee(t *testing.T) {
	ctx := context.Background()
	owner := newCompany(t)
	other := newCompany(t)
	emp := newEmployee(t, owner, "E-1")
	repo := postgresql.NewAttendanceEventRepository(testDB)

	at := time.Date(2026, time.January, 16, 13, 0, 0, 0, time.UTC)
	_, err := repo.Append(ctx, other, attendance.Event{EmployeeID: emp.ID, Kind: attendance.KindCheckIn, OccurredAt: at})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	stored, err := repo.Append(ctx, owner, attendance.Event{EmployeeID: emp.ID, Kind: attendance.KindCheckIn, OccurredAt: at})
	require.NoError(t, err)
	assert.True(t, at.Equal(stored.OccurredAt))

	events, err := repo.ListForEmployee(ctx, owner, emp.ID, at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
