package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, company_id, org_unit_id, employee_code, national_id, full_name, email,
	shift_start_minutes, shift_end_minutes, working_days, tolerance_minutes, is_active,
	created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e           employee.Employee
		shiftStart  int
		shiftEnd    int
		workingDays []int
	)
	err := row.Scan(
		&e.ID,
		&e.CompanyID,
		&e.OrgUnitID,
		&e.EmployeeCode,
		&e.NationalID,
		&e.FullName,
		&e.Email,
		&shiftStart,
		&shiftEnd,
		&workingDays,
		&e.ToleranceMinutes,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	e.ShiftStart = workcal.ClockTime(shiftStart)
	e.ShiftEnd = workcal.ClockTime(shiftEnd)
	e.WorkingDays, err = workcal.WeekdaySetFromISO(workingDays)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("employee %s: %w", e.ID, err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (employee.Employee, error) {
	if err := checkScope(scope); err != nil {
		return employee.Employee{}, err
	}
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND company_id = $2`,
		id, scope.CompanyID(),
	))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	if err := checkScope(scope); err != nil {
		return nil, 0, err
	}
	q := GetQuerier(ctx, r.db)

	where := []string{"company_id = $1"}
	args := []any{scope.CompanyID()}

	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR employee_code ILIKE $%d OR national_id ILIKE $%d)", n, n, n))
	}
	if filter.OrgUnitID != nil {
		args = append(args, *filter.OrgUnitID)
		where = append(where, fmt.Sprintf("org_unit_id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active")
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE "+whereClause, args...).Scan(&total); err != nil {
		if isNotFound(err) {
			return []employee.Employee{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("SELECT %s FROM employees WHERE %s ORDER BY full_name, id LIMIT %d OFFSET %d",
		employeeColumns, whereClause, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0, filter.Limit)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context, scope tenant.Scope) ([]employee.Employee, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND is_active ORDER BY employee_code`,
		scope.CompanyID(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, scope tenant.Scope, newEmployee employee.Employee) (employee.Employee, error) {
	if err := checkScope(scope); err != nil {
		return employee.Employee{}, err
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			company_id, org_unit_id, employee_code, national_id, full_name, email,
			shift_start_minutes, shift_end_minutes, working_days, tolerance_minutes, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		scope.CompanyID(),
		newEmployee.OrgUnitID,
		newEmployee.EmployeeCode,
		newEmployee.NationalID,
		newEmployee.FullName,
		newEmployee.Email,
		int(newEmployee.ShiftStart),
		int(newEmployee.ShiftEnd),
		newEmployee.WorkingDays.ISO(),
		newEmployee.ToleranceMinutes,
		newEmployee.IsActive,
	))
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, scope tenant.Scope, e employee.Employee) (employee.Employee, error) {
	if err := checkScope(scope); err != nil {
		return employee.Employee{}, err
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET org_unit_id = $1, employee_code = $2, national_id = $3, full_name = $4, email = $5,
			shift_start_minutes = $6, shift_end_minutes = $7, working_days = $8,
			tolerance_minutes = $9, is_active = $10, updated_at = NOW()
		WHERE id = $11 AND company_id = $12
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.OrgUnitID,
		e.EmployeeCode,
		e.NationalID,
		e.FullName,
		e.Email,
		int(e.ShiftStart),
		int(e.ShiftEnd),
		e.WorkingDays.ISO(),
		e.ToleranceMinutes,
		e.IsActive,
		e.ID,
		scope.CompanyID(),
	))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, mapEmployeeWriteError(err)
	}
	return updated, nil
}

// ExistsByCodeOrNationalID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByCodeOrNationalID(ctx context.Context, scope tenant.Scope, code, nationalID string) (bool, bool, error) {
	if err := checkScope(scope); err != nil {
		return false, false, err
	}
	q := GetQuerier(ctx, r.db)

	var codeTaken, nationalIDTaken bool
	err := q.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM employees WHERE company_id = $1 AND employee_code = $2),
			EXISTS(SELECT 1 FROM employees WHERE company_id = $1 AND national_id = $3)
	`, scope.CompanyID(), code, nationalID).Scan(&codeTaken, &nationalIDTaken)
	if err != nil {
		return false, false, err
	}
	return codeTaken, nationalIDTaken, nil
}

func mapEmployeeWriteError(err error) error {
	switch {
	case isUniqueViolation(err, "employees_company_id_employee_code_key"):
		return employee.ErrEmployeeCodeExists
	case isUniqueViolation(err, "employees_company_id_national_id_key"):
		return employee.ErrNationalIDExists
	}
	return fmt.Errorf("failed to write employee: %w", err)
}
