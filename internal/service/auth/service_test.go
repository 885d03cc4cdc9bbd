package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, store *testutil.Store, email, password string, role user.Role, companyID *string) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := store.Users().Create(context.Background(), user.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	store := testutil.NewStore()
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour)
	svc := NewAuthService(store.Users(), jwtService)
	companyID := "0196f1b4-8c2e-7d55-b3a1-2f1f5e4c9a11"
	owner := seedUser(t, store, "owner@acme.test", "correct-horse", user.RoleOwner, &companyID)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "Owner@Acme.test", Password: "correct-horse"})
		require.NoError(t, err)
		assert.Equal(t, owner.ID, resp.UserID)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "owner", resp.Role)

		decoded, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
		require.NoError(t, err)
		m, err := decoded.AsMap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeAccess, m["type"])
		claims, err := jwt.ClaimsFromMap(m)
		require.NoError(t, err)
		require.NotNil(t, claims.CompanyID)
		assert.Equal(t, companyID, *claims.CompanyID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "owner@acme.test", Password: "wrong"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "nobody@acme.test", Password: "correct-horse"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email"})
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})
}

func TestMe(t *testing.T) {
	svc := NewAuthService(testutil.NewStore().Users(), jwt.NewJWTService("test-secret-key-for-jwt", time.Hour))

	me, err := svc.Me(context.Background(), tenant.Actor{UserID: "u1", Role: string(user.RoleEmployee)})
	require.NoError(t, err)
	assert.Equal(t, []string{"attendance.record", "company.view", "leave.request"}, me.Permissions)

	admin, err := svc.Me(context.Background(), tenant.Actor{UserID: "u0", Role: string(user.RoleSuperAdmin), Global: true})
	require.NoError(t, err)
	assert.Contains(t, admin.Permissions, "company.create")
	assert.Contains(t, admin.Permissions, "user.manage")
}
