package company

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCompanyRequest_Validate(t *testing.T) {
	req := CreateCompanyRequest{Name: "Acme", Username: "acme"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "UTC", req.Timezone)

	bad := CreateCompanyRequest{Name: "", Username: "a", Timezone: "Nowhere/Town", ToleranceMinutes: -1}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestUpdateCompanyRequest_ApplyGeofence(t *testing.T) {
	lat, lng, radius := -6.2, 106.8, 150
	c := Company{ID: "c1", Name: "Acme", Timezone: "UTC"}

	updated, err := UpdateCompanyRequest{OfficeLatitude: &lat, OfficeLongitude: &lng, GeofenceRadiusMeters: &radius}.Apply(c)
	require.NoError(t, err)
	fence, ok := updated.Geofence()
	require.True(t, ok)
	assert.Equal(t, 150.0, fence.RadiusMeters)

	_, err = UpdateCompanyRequest{OfficeLatitude: &lat}.Apply(c)
	assert.ErrorIs(t, err, ErrIncompleteGeofence)

	cleared, err := UpdateCompanyRequest{ClearGeofence: true}.Apply(updated)
	require.NoError(t, err)
	_, ok = cleared.Geofence()
	assert.False(t, ok)
}

func TestCompany_LocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, "UTC", Company{Timezone: "Nowhere/Town"}.Location().String())
	assert.Equal(t, "Asia/Jakarta", Company{Timezone: "Asia/Jakarta"}.Location().String())
}
