package orgunit

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type OrgUnitResponse struct {
	ID                string    `json:"id"`
	ParentID          *string   `json:"parent_id"`
	Name              string    `json:"name"`
	ManagerEmployeeID *string   `json:"manager_employee_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewOrgUnitResponse(u OrgUnit) OrgUnitResponse {
	return OrgUnitResponse{
		ID:                u.ID,
		ParentID:          u.ParentID,
		Name:              u.Name,
		ManagerEmployeeID: u.ManagerEmployeeID,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

type CreateOrgUnitRequest struct {
	Name              string  `json:"name"`
	ParentID          *string `json:"parent_id"`
	ManagerEmployeeID *string `json:"manager_employee_id"`
}

func (r *CreateOrgUnitRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	}
	if r.ParentID != nil && !validator.IsValidUUID(*r.ParentID) {
		errs.Add("parent_id", "parent_id must be a valid UUID")
	}
	if r.ManagerEmployeeID != nil && !validator.IsValidUUID(*r.ManagerEmployeeID) {
		errs.Add("manager_employee_id", "manager_employee_id must be a valid UUID")
	}

	return errs.Err()
}

// UpdateOrgUnitRequest replaces parent and manager; nil clears them.
type UpdateOrgUnitRequest struct {
	Name              string  `json:"name"`
	ParentID          *string `json:"parent_id"`
	ManagerEmployeeID *string `json:"manager_employee_id"`
}

func (r *UpdateOrgUnitRequest) Validate() error {
	c := CreateOrgUnitRequest(*r)
	err := c.Validate()
	r.Name = c.Name
	return err
}
