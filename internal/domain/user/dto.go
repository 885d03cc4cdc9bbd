package user

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type CreateUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	role := Role(r.Role)
	if !role.Valid() || role.Global() {
		errs.Add("role", "role must be one of: owner, manager, employee")
	}

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	return errs.Err()
}

type UserResponse struct {
	ID         string    `json:"id"`
	CompanyID  *string   `json:"company_id"`
	EmployeeID *string   `json:"employee_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		CompanyID:  u.CompanyID,
		EmployeeID: u.EmployeeID,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}
