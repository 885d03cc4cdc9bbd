package auth

import (
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresAt   int64   `json:"expires_at"`
	UserID      string  `json:"user_id"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	CompanyID   *string `json:"company_id,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
}

type MeResponse struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	CompanyID   *string  `json:"company_id,omitempty"`
	EmployeeID  *string  `json:"employee_id,omitempty"`
	Permissions []string `json:"permissions"`
}
