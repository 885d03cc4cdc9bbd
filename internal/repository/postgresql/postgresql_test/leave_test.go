package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"github.com/cmlabs-hris/hris-workforce-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRequest_DecideOnlyOnce(t *testing.T) {
	ctx := context.Background()
	scope := newCompany(t)
	emp := newEmployee(t, scope, "E-1")
	boss := newEmployee(t, scope, "E-2")

	lt, err := postgresql.NewLeaveTypeRepository(testDB).Create(ctx, scope, leave.LeaveType{Name: "Vacation", IsActive: true})
	require.NoError(t, err)

	repo := postgresql.NewLeaveRequestRepository(testDB)
	req, err := repo.Create(ctx, scope, leave.LeaveRequest{
		EmployeeID:         emp.ID,
		LeaveTypeID:        lt.ID,
		StartDate:          workcal.Date(2026, time.January, 19),
		EndDate:            workcal.Date(2026, time.January, 23),
		BusinessDays:       5,
		Reason:             "trip",
		Status:             leave.StatusPending,
		ApproverEmployeeID: boss.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Vacation", req.LeaveTypeName)

	decided, err := repo.Decide(ctx, scope, req.ID, leave.StatusApproved, time.Now())
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, decided.Status)

	_, err = repo.Decide(ctx, scope, req.ID, leave.StatusRejected, time.Now())
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))

	err = repo.DeletePending(ctx, scope, req.ID)
	assert.True(t, errors.Is(err, apperror.ErrInvalidState))

	stored, err := repo.GetByID(ctx, scope, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)

	covered, err := repo.HasApprovedLeave(ctx, scope, emp.ID, workcal.Date(2026, time.January, 21))
	require.NoError(t, err)
	assert.True(t, covered)
}

func TestVacationBalance_ConsumeGuard(t *testing.T) {
	ctx := context.Background()
	scope := newCompany(t)
	emp := newEmployee(t, scope, "E-1")
	repo := postgresql.NewVacationBalanceRepository(testDB)

	_, err := repo.SetAssigned(ctx, scope, emp.ID, 2026, 5)
	require.NoError(t, err)

	b, err := repo.Consume(ctx, scope, emp.ID, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Available())

	_, err = repo.Consume(ctx, scope, emp.ID, 2026, 3)
	assert.True(t, errors.Is(err, leave.ErrInsufficientBalance))

	_, err = repo.SetAssigned(ctx, scope, emp.ID, 2026, 2)
	assert.True(t, errors.Is(err, leave.ErrAssignedBelowTaken))
}
