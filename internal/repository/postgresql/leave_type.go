package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `id, company_id, name, affects_pay, requires_document, deducts_vacation, is_active, created_at, updated_at`

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.CompanyID, &lt.Name,
		&lt.AffectsPay, &lt.RequiresDocument, &lt.DeductsVacation, &lt.IsActive,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (leave.LeaveType, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveType{}, err
	}
	q := GetQuerier(ctx, r.db)

	lt, err := scanLeaveType(q.QueryRow(ctx,
		`SELECT `+leaveTypeColumns+` FROM leave_types WHERE id = $1 AND company_id = $2`,
		id, scope.CompanyID(),
	))
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type %s: %w", id, err)
	}
	return lt, nil
}

// List implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]leave.LeaveType, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveTypeColumns+`
		FROM leave_types
		WHERE company_id = $1 AND (NOT $2 OR is_active)
		ORDER BY name
	`, scope.CompanyID(), activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]leave.LeaveType, 0)
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// Create implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Create(ctx context.Context, scope tenant.Scope, lt leave.LeaveType) (leave.LeaveType, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveType{}, err
	}
	q := GetQuerier(ctx, r.db)

	created, err := scanLeaveType(q.QueryRow(ctx, `
		INSERT INTO leave_types (company_id, name, affects_pay, requires_document, deducts_vacation, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+leaveTypeColumns,
		scope.CompanyID(), lt.Name, lt.AffectsPay, lt.RequiresDocument, lt.DeductsVacation, lt.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err, "leave_types_company_id_name_key") {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// Update implements leave.LeaveTypeRepository.
func (r *leaveTypeRepositoryImpl) Update(ctx context.Context, scope tenant.Scope, lt leave.LeaveType) (leave.LeaveType, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveType{}, err
	}
	q := GetQuerier(ctx, r.db)

	updated, err := scanLeaveType(q.QueryRow(ctx, `
		UPDATE leave_types
		SET name = $1, affects_pay = $2, requires_document = $3, deducts_vacation = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
		RETURNING `+leaveTypeColumns,
		lt.Name, lt.AffectsPay, lt.RequiresDocument, lt.DeductsVacation, lt.IsActive, lt.ID, scope.CompanyID(),
	))
	if err != nil {
		switch {
		case isNotFound(err):
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		case isUniqueViolation(err, "leave_types_company_id_name_key"):
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to update leave type %s: %w", lt.ID, err)
	}
	return updated, nil
}
