package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScope(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	acme, _ := store.AddCompany(company.Company{Name: "Acme", Username: "acme"})
	globex, _ := store.AddCompany(company.Company{Name: "Globex", Username: "globex"})
	resolver := NewResolver(store.Companies(), store.Selections())

	admin := tenant.Actor{UserID: "admin", Role: "super_admin", Global: true}

	t.Run("global without selection fails closed", func(t *testing.T) {
		_, err := resolver.ResolveScope(ctx, admin, "")
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("explicit selection is remembered", func(t *testing.T) {
		scope, err := resolver.ResolveScope(ctx, admin, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, acme.ID, scope.CompanyID())

		scope, err = resolver.ResolveScope(ctx, admin, "")
		require.NoError(t, err)
		assert.Equal(t, acme.ID, scope.CompanyID())
	})

	t.Run("explicit wins over remembered", func(t *testing.T) {
		scope, err := resolver.ResolveScope(ctx, admin, globex.ID)
		require.NoError(t, err)
		assert.Equal(t, globex.ID, scope.CompanyID())

		remembered, err := store.Selections().Remembered(ctx, admin.UserID)
		require.NoError(t, err)
		assert.Equal(t, globex.ID, remembered)
	})

	t.Run("unknown company is not found", func(t *testing.T) {
		_, err := resolver.ResolveScope(ctx, admin, "5f0c9c1e-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, tenant.ErrCompanyNotFound)

		remembered, err := store.Selections().Remembered(ctx, admin.UserID)
		require.NoError(t, err)
		assert.Equal(t, globex.ID, remembered, "a failed selection is not remembered")
	})

	t.Run("scoped actor ignores selector", func(t *testing.T) {
		staff := tenant.Actor{UserID: "staff", Role: "employee", CompanyID: &acme.ID}
		scope, err := resolver.ResolveScope(ctx, staff, globex.ID)
		require.NoError(t, err)
		assert.Equal(t, acme.ID, scope.CompanyID())

		remembered, err := store.Selections().Remembered(ctx, staff.UserID)
		require.NoError(t, err)
		assert.Empty(t, remembered)
	})

	t.Run("scoped actor without company is denied", func(t *testing.T) {
		_, err := resolver.ResolveScope(ctx, tenant.Actor{UserID: "orphan", Role: "employee"}, acme.ID)
		assert.True(t, errors.Is(err, apperror.ErrAuthorization))
	})
}
