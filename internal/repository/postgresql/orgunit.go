package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/orgunit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type orgUnitRepositoryImpl struct {
	db *database.DB
}

func NewOrgUnitRepository(db *database.DB) orgunit.OrgUnitRepository {
	return &orgUnitRepositoryImpl{db: db}
}

const orgUnitColumns = `id, company_id, parent_id, name, manager_employee_id, created_at, updated_at`

func scanOrgUnit(row pgx.Row) (orgunit.OrgUnit, error) {
	var u orgunit.OrgUnit
	err := row.Scan(&u.ID, &u.CompanyID, &u.ParentID, &u.Name, &u.ManagerEmployeeID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID implements orgunit.OrgUnitRepository.
func (r *orgUnitRepositoryImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (orgunit.OrgUnit, error) {
	if err := checkScope(scope); err != nil {
		return orgunit.OrgUnit{}, err
	}
	q := GetQuerier(ctx, r.db)

	u, err := scanOrgUnit(q.QueryRow(ctx,
		`SELECT `+orgUnitColumns+` FROM org_units WHERE id = $1 AND company_id = $2`,
		id, scope.CompanyID(),
	))
	if err != nil {
		if isNotFound(err) {
			return orgunit.OrgUnit{}, orgunit.ErrOrgUnitNotFound
		}
		return orgunit.OrgUnit{}, fmt.Errorf("failed to get org unit %s: %w", id, err)
	}
	return u, nil
}

// List implements orgunit.OrgUnitRepository.
func (r *orgUnitRepositoryImpl) List(ctx context.Context, scope tenant.Scope) ([]orgunit.OrgUnit, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+orgUnitColumns+` FROM org_units WHERE company_id = $1 ORDER BY name`, scope.CompanyID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]orgunit.OrgUnit, 0)
	for rows.Next() {
		u, err := scanOrgUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// Create implements orgunit.OrgUnitRepository.
func (r *orgUnitRepositoryImpl) Create(ctx context.Context, scope tenant.Scope, unit orgunit.OrgUnit) (orgunit.OrgUnit, error) {
	if err := checkScope(scope); err != nil {
		return orgunit.OrgUnit{}, err
	}
	q := GetQuerier(ctx, r.db)

	created, err := scanOrgUnit(q.QueryRow(ctx, `
		INSERT INTO org_units (company_id, parent_id, name, manager_employee_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+orgUnitColumns,
		scope.CompanyID(), unit.ParentID, unit.Name, unit.ManagerEmployeeID,
	))
	if err != nil {
		if isUniqueViolation(err, "org_units_company_id_name_key") {
			return orgunit.OrgUnit{}, orgunit.ErrOrgUnitNameExists
		}
		return orgunit.OrgUnit{}, fmt.Errorf("failed to create org unit: %w", err)
	}
	return created, nil
}

// Update implements orgunit.OrgUnitRepository.
func (r *orgUnitRepositoryImpl) Update(ctx context.Context, scope tenant.Scope, unit orgunit.OrgUnit) (orgunit.OrgUnit, error) {
	if err := checkScope(scope); err != nil {
		return orgunit.OrgUnit{}, err
	}
	q := GetQuerier(ctx, r.db)

	updated, err := scanOrgUnit(q.QueryRow(ctx, `
		UPDATE org_units
		SET parent_id = $1, name = $2, manager_employee_id = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5
		RETURNING `+orgUnitColumns,
		unit.ParentID, unit.Name, unit.ManagerEmployeeID, unit.ID, scope.CompanyID(),
	))
	if err != nil {
		switch {
		case isNotFound(err):
			return orgunit.OrgUnit{}, orgunit.ErrOrgUnitNotFound
		case isUniqueViolation(err, "org_units_company_id_name_key"):
			return orgunit.OrgUnit{}, orgunit.ErrOrgUnitNameExists
		}
		return orgunit.OrgUnit{}, fmt.Errorf("failed to update org unit %s: %w", unit.ID, err)
	}
	return updated, nil
}

// Delete implements orgunit.OrgUnitRepository.
func (r *orgUnitRepositoryImpl) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM org_units WHERE id = $1 AND company_id = $2`, id, scope.CompanyID())
	if err != nil {
		if isNotFound(err) {
			return orgunit.ErrOrgUnitNotFound
		}
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return orgunit.ErrOrgUnitNotFound
	}
	return nil
}
