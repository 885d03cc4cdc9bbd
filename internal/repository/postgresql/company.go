package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `id, name, username, timezone, attendance_tolerance_minutes,
	office_latitude, office_longitude, geofence_radius_meters, created_at, updated_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Username, &c.Timezone, &c.ToleranceMinutes,
		&c.OfficeLatitude, &c.OfficeLongitude, &c.GeofenceRadiusMeters,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Get implements company.CompanyRepository.
func (c *companyRepositoryImpl) Get(ctx context.Context, scope tenant.Scope) (company.Company, error) {
	if err := checkScope(scope); err != nil {
		return company.Company{}, err
	}
	q := GetQuerier(ctx, c.db)

	found, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, scope.CompanyID()))
	if err != nil {
		if isNotFound(err) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company %s: %w", scope.CompanyID(), err)
	}
	return found, nil
}

// Exists implements company.CompanyRepository.
func (c *companyRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, c.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]company.Company, 0)
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, found)
	}
	return companies, rows.Err()
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (
			name, username, timezone, attendance_tolerance_minutes,
			office_latitude, office_longitude, geofence_radius_meters
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		newCompany.Name, newCompany.Username, newCompany.Timezone, newCompany.ToleranceMinutes,
		newCompany.OfficeLatitude, newCompany.OfficeLongitude, newCompany.GeofenceRadiusMeters,
	))
	if err != nil {
		if isUniqueViolation(err, "companies_username_key") {
			return company.Company{}, company.ErrCompanyUsernameExists
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, scope tenant.Scope, updated company.Company) (company.Company, error) {
	if err := checkScope(scope); err != nil {
		return company.Company{}, err
	}
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET name = $1, timezone = $2, attendance_tolerance_minutes = $3,
			office_latitude = $4, office_longitude = $5, geofence_radius_meters = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + companyColumns

	stored, err := scanCompany(q.QueryRow(ctx, query,
		updated.Name, updated.Timezone, updated.ToleranceMinutes,
		updated.OfficeLatitude, updated.OfficeLongitude, updated.GeofenceRadiusMeters,
		scope.CompanyID(),
	))
	if err != nil {
		if isNotFound(err) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to update company %s: %w", scope.CompanyID(), err)
	}
	return stored, nil
}
