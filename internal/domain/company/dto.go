package company

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"company_name"`
	Username             string    `json:"company_username"`
	Timezone             string    `json:"timezone"`
	ToleranceMinutes     int       `json:"attendance_tolerance_minutes"`
	OfficeLatitude       *float64  `json:"office_latitude,omitempty"`
	OfficeLongitude      *float64  `json:"office_longitude,omitempty"`
	GeofenceRadiusMeters *int      `json:"geofence_radius_meters,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Username:             c.Username,
		Timezone:             c.Timezone,
		ToleranceMinutes:     c.ToleranceMinutes,
		OfficeLatitude:       c.OfficeLatitude,
		OfficeLongitude:      c.OfficeLongitude,
		GeofenceRadiusMeters: c.GeofenceRadiusMeters,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

type CreateCompanyRequest struct {
	Name             string `json:"company_name"`
	Username         string `json:"company_username"`
	Timezone         string `json:"timezone"`
	ToleranceMinutes int    `json:"attendance_tolerance_minutes"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("company_name", "company_name is required")
	} else if len(r.Name) > 255 {
		errs.Add("company_name", "company_name must not exceed 255 characters")
	}

	if !validator.IsValidCompanyUsername(r.Username) {
		errs.Add("company_username", "company_username must be 3-50 characters of letters, digits, '.', '_' or '-'")
	}

	if r.Timezone == "" {
		r.Timezone = "UTC"
	}
	if !validator.IsValidTimezone(r.Timezone) {
		errs.Add("timezone", "timezone must be an IANA time zone name")
	}

	if r.ToleranceMinutes < 0 || r.ToleranceMinutes > 240 {
		errs.Add("attendance_tolerance_minutes", "attendance_tolerance_minutes must be between 0 and 240")
	}

	return errs.Err()
}

type UpdateCompanyRequest struct {
	Name                 *string  `json:"company_name,omitempty"`
	Timezone             *string  `json:"timezone,omitempty"`
	ToleranceMinutes     *int     `json:"attendance_tolerance_minutes,omitempty"`
	OfficeLatitude       *float64 `json:"office_latitude,omitempty"`
	OfficeLongitude      *float64 `json:"office_longitude,omitempty"`
	GeofenceRadiusMeters *int     `json:"geofence_radius_meters,omitempty"`
	ClearGeofence        bool     `json:"clear_geofence,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && (validator.IsEmpty(*r.Name) || len(*r.Name) > 255) {
		errs.Add("company_name", "company_name must be 1-255 characters")
	}
	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs.Add("timezone", "timezone must be an IANA time zone name")
	}
	if r.ToleranceMinutes != nil && (*r.ToleranceMinutes < 0 || *r.ToleranceMinutes > 240) {
		errs.Add("attendance_tolerance_minutes", "attendance_tolerance_minutes must be between 0 and 240")
	}
	if r.OfficeLatitude != nil && !validator.IsValidLatitude(*r.OfficeLatitude) {
		errs.Add("office_latitude", "office_latitude must be between -90 and 90")
	}
	if r.OfficeLongitude != nil && !validator.IsValidLongitude(*r.OfficeLongitude) {
		errs.Add("office_longitude", "office_longitude must be between -180 and 180")
	}
	if r.GeofenceRadiusMeters != nil && *r.GeofenceRadiusMeters <= 0 {
		errs.Add("geofence_radius_meters", "geofence_radius_meters must be positive")
	}

	return errs.Err()
}

// Apply copies the requested changes onto c.
func (r UpdateCompanyRequest) Apply(c Company) (Company, error) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Timezone != nil {
		c.Timezone = *r.Timezone
	}
	if r.ToleranceMinutes != nil {
		c.ToleranceMinutes = *r.ToleranceMinutes
	}

	if r.ClearGeofence {
		c.OfficeLatitude, c.OfficeLongitude, c.GeofenceRadiusMeters = nil, nil, nil
		return c, nil
	}
	if r.OfficeLatitude != nil {
		c.OfficeLatitude = r.OfficeLatitude
	}
	if r.OfficeLongitude != nil {
		c.OfficeLongitude = r.OfficeLongitude
	}
	if r.GeofenceRadiusMeters != nil {
		c.GeofenceRadiusMeters = r.GeofenceRadiusMeters
	}

	set := 0
	for _, ok := range []bool{c.OfficeLatitude != nil, c.OfficeLongitude != nil, c.GeofenceRadiusMeters != nil} {
		if ok {
			set++
		}
	}
	if set != 0 && set != 3 {
		return c, ErrIncompleteGeofence
	}
	return c, nil
}
