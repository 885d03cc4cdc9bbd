package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
	employeeRepo employee.EmployeeRepository
}

func NewUserService(userRepository user.UserRepository, employeeRepository employee.EmployeeRepository) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		employeeRepo:   employeeRepository,
	}
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req user.CreateUserRequest) (user.UserResponse, event.Events, error) {
	var events event.Events
	if !user.Can(actor, user.PermissionUserManage) {
		return user.UserResponse{}, events, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, events, err
	}

	// Only the super admin may hand out the owner role.
	role := user.Role(req.Role)
	if role == user.RoleOwner && !actor.Global {
		return user.UserResponse{}, events, user.ErrRoleNotAssignable
	}

	emp, err := s.employeeRepo.GetByID(ctx, scope, req.EmployeeID)
	if err != nil {
		return user.UserResponse{}, events, err
	}

	linked, err := s.UserRepository.ExistsByEmployee(ctx, scope, emp.ID)
	if err != nil {
		return user.UserResponse{}, events, fmt.Errorf("failed to check employee login: %w", err)
	}
	if linked {
		return user.UserResponse{}, events, user.ErrEmployeeAlreadyLinked
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, events, fmt.Errorf("failed to hash password: %w", err)
	}

	companyID := scope.CompanyID()
	created, err := s.UserRepository.Create(ctx, user.User{
		CompanyID:    &companyID,
		EmployeeID:   &emp.ID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return user.UserResponse{}, events, err
	}

	events.Record(event.NewAudit(companyID, actor.UserID, "user.create", "user", created.ID, map[string]any{
		"email":       created.Email,
		"role":        string(created.Role),
		"employee_id": emp.ID,
	}))
	events.Notify(event.Notification{
		CompanyID:           companyID,
		RecipientEmployeeID: emp.ID,
		Title:               "Your account is ready",
		Message:             fmt.Sprintf("You can now sign in as %s.", created.Email),
		Category:            event.CategoryAccount,
	})

	return user.NewUserResponse(created), events, nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor tenant.Actor, scope tenant.Scope) ([]user.UserResponse, error) {
	if !user.Can(actor, user.PermissionUserManage) {
		return nil, user.ErrInsufficientPermissions
	}

	users, err := s.UserRepository.ListByCompany(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}
