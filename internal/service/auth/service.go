package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.Claims{
		UserID:     userData.ID,
		Email:      userData.Email,
		EmployeeID: userData.EmployeeID,
		CompanyID:  userData.CompanyID,
		Role:       string(userData.Role),
	})
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		UserID:      userData.ID,
		Email:       userData.Email,
		Role:        string(userData.Role),
		CompanyID:   userData.CompanyID,
		EmployeeID:  userData.EmployeeID,
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor tenant.Actor) (auth.MeResponse, error) {
	role := user.Role(actor.Role)

	var permissions []string
	if role == user.RoleSuperAdmin {
		for _, perms := range user.RolePermissions {
			for _, p := range perms {
				permissions = append(permissions, string(p))
			}
		}
		permissions = append(permissions, string(user.PermissionCompanyCreate))
	} else {
		for _, p := range user.RolePermissions[role] {
			permissions = append(permissions, string(p))
		}
	}

	return auth.MeResponse{
		UserID:      actor.UserID,
		Email:       actor.Email,
		Role:        actor.Role,
		CompanyID:   actor.CompanyID,
		EmployeeID:  actor.EmployeeID,
		Permissions: dedupe(permissions),
	}, nil
}

func dedupe(values []string) []string {
	sort.Strings(values)
	out := make([]string, 0, len(values))
	for i, v := range values {
		if i == 0 || values[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}
