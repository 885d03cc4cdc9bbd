package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeService(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	acme, scope := store.AddCompany(company.Company{Name: "Acme", Username: "acme"})
	_, otherScope := store.AddCompany(company.Company{Name: "Globex", Username: "globex"})
	svc := NewEmployeeService(store.Employees(), store.OrgUnits())
	owner := tenant.Actor{UserID: "owner", Role: string(user.RoleOwner), CompanyID: &acme.ID}

	created, events, err := svc.Create(ctx, owner, scope, employee.CreateEmployeeRequest{
		EmployeeCode: "E-001",
		NationalID:   "1020304050",
		FullName:     "Ana Gómez",
		ShiftStart:   "08:00",
		ShiftEnd:     "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, created.WorkingDays)
	assert.True(t, created.IsActive)
	require.Len(t, events.Audits, 1)

	t.Run("codes are unique per tenant", func(t *testing.T) {
		_, _, err := svc.Create(ctx, owner, scope, employee.CreateEmployeeRequest{
			EmployeeCode: "E-001", NationalID: "999", FullName: "Dup", ShiftStart: "08:00", ShiftEnd: "17:00",
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

		_, _, err = svc.Create(ctx, owner, scope, employee.CreateEmployeeRequest{
			EmployeeCode: "E-002", NationalID: "1020304050", FullName: "Dup", ShiftStart: "08:00", ShiftEnd: "17:00",
		})
		assert.ErrorIs(t, err, employee.ErrNationalIDExists)

		globexOwner := tenant.Actor{UserID: "g", Role: string(user.RoleOwner)}
		_, _, err = svc.Create(ctx, globexOwner, otherScope, employee.CreateEmployeeRequest{
			EmployeeCode: "E-001", NationalID: "1020304050", FullName: "Same code elsewhere", ShiftStart: "08:00", ShiftEnd: "17:00",
		})
		assert.NoError(t, err)
	})

	t.Run("update keeps the shift ordered", func(t *testing.T) {
		early := "07:00"
		_, _, err := svc.Update(ctx, owner, scope, created.ID, employee.UpdateEmployeeRequest{ShiftEnd: &early})
		assert.ErrorIs(t, err, employee.ErrShiftEndsBeforeStart)

		tolerance := 10
		updated, _, err := svc.Update(ctx, owner, scope, created.ID, employee.UpdateEmployeeRequest{
			ToleranceMinutes: &tolerance,
			WorkingDays:      []int{1, 2, 3, 4, 5, 6},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.ToleranceMinutes)
		assert.Equal(t, 10, *updated.ToleranceMinutes)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, updated.WorkingDays)
	})

	t.Run("employees see only themselves", func(t *testing.T) {
		self := tenant.Actor{UserID: "u", Role: string(user.RoleEmployee), CompanyID: &acme.ID, EmployeeID: &created.ID}
		got, err := svc.Get(ctx, self, scope, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Gómez", got.FullName)

		other := "someone-else"
		stranger := tenant.Actor{UserID: "v", Role: string(user.RoleEmployee), CompanyID: &acme.ID, EmployeeID: &other}
		_, err = svc.Get(ctx, stranger, scope, created.ID)
		assert.True(t, errors.Is(err, apperror.ErrAuthorization))
	})

	t.Run("another tenant cannot see the employee", func(t *testing.T) {
		_, err := svc.Get(ctx, owner, otherScope, created.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	_, err = svc.Deactivate(ctx, owner, scope, created.ID)
	require.NoError(t, err)
	list, err := svc.List(ctx, owner, scope, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Employees)
	assert.Equal(t, 20, list.Limit)
}
