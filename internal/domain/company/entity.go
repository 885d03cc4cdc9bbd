package company

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/geo"
)

type Company struct {
	ID                   string
	Name                 string
	Username             string
	Timezone             string
	ToleranceMinutes     int
	OfficeLatitude       *float64
	OfficeLongitude      *float64
	GeofenceRadiusMeters *int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Location returns the company time zone, falling back to UTC for names
// the runtime does not know.
func (c Company) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Geofence returns the office fence, or false when none is configured.
func (c Company) Geofence() (geo.Fence, bool) {
	if c.OfficeLatitude == nil || c.OfficeLongitude == nil || c.GeofenceRadiusMeters == nil {
		return geo.Fence{}, false
	}
	return geo.Fence{
		Center:       geo.Point{Latitude: *c.OfficeLatitude, Longitude: *c.OfficeLongitude},
		RadiusMeters: float64(*c.GeofenceRadiusMeters),
	}, true
}
