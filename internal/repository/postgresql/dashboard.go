package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountWorkdaysByStatus implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountWorkdaysByStatus(ctx context.Context, scope tenant.Scope, date time.Time) (map[string]int, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT status, COUNT(*)
		FROM attendance_workdays
		WHERE company_id = $1 AND work_date = $2
		GROUP BY status
	`, scope.CompanyID(), date)
	if err != nil {
		return nil, fmt.Errorf("failed to count workdays by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CountPendingLeave implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountPendingLeave(ctx context.Context, scope tenant.Scope) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM leave_requests
		WHERE company_id = $1 AND status = 'pending' AND deleted_at IS NULL
	`, scope.CompanyID()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending leave: %w", err)
	}
	return count, nil
}

// CountActiveEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountActiveEmployees(ctx context.Context, scope tenant.Scope) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE company_id = $1 AND is_active`, scope.CompanyID()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// CountOnLeave implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountOnLeave(ctx context.Context, scope tenant.Scope, date time.Time) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(DISTINCT employee_id) FROM leave_requests
		WHERE company_id = $1 AND status = 'approved' AND deleted_at IS NULL
			AND start_date <= $2 AND end_date >= $2
	`, scope.CompanyID(), date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees on leave: %w", err)
	}
	return count, nil
}

// AverageMinutesLate implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) AverageMinutesLate(ctx context.Context, scope tenant.Scope, from, to time.Time) (float64, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	q := GetQuerier(ctx, r.db)

	var avg float64
	err := q.QueryRow(ctx, `
		SELECT COALESCE(AVG(minutes_late), 0)::float8
		FROM attendance_workdays
		WHERE company_id = $1 AND status = 'late' AND work_date BETWEEN $2 AND $3
	`, scope.CompanyID(), from, to).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average minutes late: %w", err)
	}
	return avg, nil
}
