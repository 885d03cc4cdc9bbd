package company

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_SeedsDefaultLeaveTypes(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	svc := NewCompanyService(store.Transactor(), store.Companies(), store.LeaveTypes())
	admin := tenant.Actor{UserID: "admin", Role: string(user.RoleSuperAdmin), Global: true}

	created, events, err := svc.Create(ctx, admin, company.CreateCompanyRequest{
		Name:     "Acme",
		Username: "acme",
		Timezone: "Asia/Jakarta",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", created.Timezone)
	require.Len(t, events.Audits, 1)
	assert.Equal(t, "company.create", events.Audits[0].Action)
	assert.Equal(t, 1, store.TxCalls)

	types, err := store.LeaveTypes().List(ctx, tenant.NewScope(created.ID), true)
	require.NoError(t, err)
	assert.Len(t, types, 4)
	for _, lt := range types {
		assert.Equal(t, created.ID, lt.CompanyID)
	}

	_, _, err = svc.Create(ctx, admin, company.CreateCompanyRequest{Name: "Acme 2", Username: "acme"})
	assert.ErrorIs(t, err, company.ErrCompanyUsernameExists)
}

func TestCreate_RequiresGlobalActor(t *testing.T) {
	store := testutil.NewStore()
	svc := NewCompanyService(store.Transactor(), store.Companies(), store.LeaveTypes())
	companyID := "c1"
	owner := tenant.Actor{UserID: "owner", Role: string(user.RoleOwner), CompanyID: &companyID}

	_, _, err := svc.Create(context.Background(), owner, company.CreateCompanyRequest{Name: "Acme", Username: "acme"})
	assert.True(t, errors.Is(err, apperror.ErrAuthorization))
}
