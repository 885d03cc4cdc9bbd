package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type vacationBalanceRepositoryImpl struct {
	db *database.DB
}

func NewVacationBalanceRepository(db *database.DB) leave.VacationBalanceRepository {
	return &vacationBalanceRepositoryImpl{db: db}
}

const vacationBalanceColumns = `id, company_id, employee_id, period, assigned_days, taken_days, created_at, updated_at`

func scanVacationBalance(row pgx.Row) (leave.VacationBalance, error) {
	var b leave.VacationBalance
	err := row.Scan(&b.ID, &b.CompanyID, &b.EmployeeID, &b.Period, &b.AssignedDays, &b.TakenDays, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Get implements leave.VacationBalanceRepository.
func (r *vacationBalanceRepositoryImpl) Get(ctx context.Context, scope tenant.Scope, employeeID string, period int) (leave.VacationBalance, error) {
	if err := checkScope(scope); err != nil {
		return leave.VacationBalance{}, err
	}
	q := GetQuerier(ctx, r.db)

	b, err := scanVacationBalance(q.QueryRow(ctx, `
		SELECT `+vacationBalanceColumns+`
		FROM vacation_balances
		WHERE company_id = $1 AND employee_id = $2 AND period = $3
	`, scope.CompanyID(), employeeID, period))
	if err != nil {
		if isNotFound(err) {
			return leave.VacationBalance{}, leave.ErrBalanceNotFound
		}
		return leave.VacationBalance{}, fmt.Errorf("failed to get vacation balance: %w", err)
	}
	return b, nil
}

// List implements leave.VacationBalanceRepository.
func (r *vacationBalanceRepositoryImpl) List(ctx context.Context, scope tenant.Scope, period int) ([]leave.VacationBalance, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+vacationBalanceColumns+`
		FROM vacation_balances
		WHERE company_id = $1 AND period = $2
		ORDER BY employee_id
	`, scope.CompanyID(), period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.VacationBalance, 0)
	for rows.Next() {
		b, err := scanVacationBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// SetAssigned implements leave.VacationBalanceRepository.
func (r *vacationBalanceRepositoryImpl) SetAssigned(ctx context.Context, scope tenant.Scope, employeeID string, period, assignedDays int) (leave.VacationBalance, error) {
	if err := checkScope(scope); err != nil {
		return leave.VacationBalance{}, err
	}
	q := GetQuerier(ctx, r.db)

	b, err := scanVacationBalance(q.QueryRow(ctx, `
		INSERT INTO vacation_balances (company_id, employee_id, period, assigned_days)
		SELECT e.company_id, e.id, $3, $4
		FROM employees e
		WHERE e.id = $2 AND e.company_id = $1
		ON CONFLICT (employee_id, period) DO UPDATE
		SET assigned_days = EXCLUDED.assigned_days, updated_at = NOW()
		WHERE vacation_balances.taken_days <= EXCLUDED.assigned_days
		RETURNING `+vacationBalanceColumns,
		scope.CompanyID(), employeeID, period, assignedDays,
	))
	if err != nil {
		if isNotFound(err) {
			// Either the employee is not in scope or the guard refused.
			if _, getErr := r.Get(ctx, scope, employeeID, period); getErr == nil {
				return leave.VacationBalance{}, leave.ErrAssignedBelowTaken
			}
			return leave.VacationBalance{}, employee.ErrEmployeeNotFound
		}
		return leave.VacationBalance{}, fmt.Errorf("failed to set vacation balance: %w", err)
	}
	return b, nil
}

// Consume implements leave.VacationBalanceRepository.
func (r *vacationBalanceRepositoryImpl) Consume(ctx context.Context, scope tenant.Scope, employeeID string, period, days int) (leave.VacationBalance, error) {
	if err := checkScope(scope); err != nil {
		return leave.VacationBalance{}, err
	}
	q := GetQuerier(ctx, r.db)

	b, err := scanVacationBalance(q.QueryRow(ctx, `
		UPDATE vacation_balances
		SET taken_days = taken_days + $4, updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND period = $3
			AND taken_days + $4 <= assigned_days
		RETURNING `+vacationBalanceColumns,
		scope.CompanyID(), employeeID, period, days,
	))
	if err != nil {
		if isNotFound(err) {
			return leave.VacationBalance{}, leave.ErrInsufficientBalance
		}
		return leave.VacationBalance{}, fmt.Errorf("failed to consume vacation balance: %w", err)
	}
	return b, nil
}
