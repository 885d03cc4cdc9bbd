package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// AttendanceRows implements report.ReportRepository.
func (r *reportRepositoryImpl) AttendanceRows(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]report.AttendanceRow, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.employee_code, e.full_name, w.work_date, w.first_in, w.last_out,
			w.minutes_worked, w.minutes_late, w.status
		FROM attendance_workdays w
		INNER JOIN employees e ON e.id = w.employee_id
		WHERE w.company_id = $1 AND w.work_date BETWEEN $2 AND $3
		ORDER BY e.employee_code, w.work_date
	`

	rows, err := q.Query(ctx, query, scope.CompanyID(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	defer rows.Close()

	result := make([]report.AttendanceRow, 0)
	for rows.Next() {
		var row report.AttendanceRow
		if err := rows.Scan(
			&row.EmployeeCode, &row.EmployeeName, &row.WorkDate, &row.FirstIn, &row.LastOut,
			&row.MinutesWorked, &row.MinutesLate, &row.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
