package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceEventRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceEventRepository(db *database.DB) attendance.EventRepository {
	return &attendanceEventRepositoryImpl{db: db}
}

const eventColumns = `id, company_id, employee_id, kind, occurred_at, latitude, longitude, recorded_by_user_id, created_at`

func scanEvent(row pgx.Row) (attendance.Event, error) {
	var e attendance.Event
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.Kind, &e.OccurredAt,
		&e.Latitude, &e.Longitude, &e.RecordedByUserID, &e.CreatedAt,
	)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]attendance.Event, error) {
	defer rows.Close()

	events := make([]attendance.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Append implements attendance.EventRepository.
func (r *attendanceEventRepositoryImpl) Append(ctx context.Context, scope tenant.Scope, e attendance.Event) (attendance.Event, error) {
	if err := checkScope(scope); err != nil {
		return attendance.Event{}, err
	}
	q := GetQuerier(ctx, r.db)

	// The employee must belong to the scope; the INSERT ... SELECT writes
	// nothing otherwise.
	stored, err := scanEvent(q.QueryRow(ctx, `
		INSERT INTO attendance_events (company_id, employee_id, kind, occurred_at, latitude, longitude, recorded_by_user_id)
		SELECT e.company_id, e.id, $3, $4, $5, $6, $7
		FROM employees e
		WHERE e.id = $2 AND e.company_id = $1
		RETURNING `+eventColumns,
		scope.CompanyID(), e.EmployeeID, e.Kind, e.OccurredAt.UTC(), e.Latitude, e.Longitude, e.RecordedByUserID,
	))
	if err != nil {
		if isNotFound(err) {
			return attendance.Event{}, employee.ErrEmployeeNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}
	return stored, nil
}

// ListForEmployee implements attendance.EventRepository.
func (r *attendanceEventRepositoryImpl) ListForEmployee(ctx context.Context, scope tenant.Scope, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+eventColumns+`
		FROM attendance_events
		WHERE company_id = $1 AND employee_id = $2 AND occurred_at >= $3 AND occurred_at < $4
		ORDER BY occurred_at, created_at
	`, scope.CompanyID(), employeeID, from.UTC(), to.UTC())
	if err != nil {
		if isNotFound(err) {
			return []attendance.Event{}, nil
		}
		return nil, err
	}
	return collectEvents(rows)
}

// List implements attendance.EventRepository.
func (r *attendanceEventRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter attendance.EventFilter) ([]attendance.Event, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	where := []string{"company_id = $1", "occurred_at >= $2", "occurred_at < $3"}
	args := []any{scope.CompanyID(), filter.From.UTC(), filter.To.UTC()}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)))
	}

	rows, err := q.Query(ctx,
		"SELECT "+eventColumns+" FROM attendance_events WHERE "+strings.Join(where, " AND ")+" ORDER BY occurred_at, created_at",
		args...,
	)
	if err != nil {
		if isNotFound(err) {
			return []attendance.Event{}, nil
		}
		return nil, err
	}
	return collectEvents(rows)
}

type attendanceWorkdayRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceWorkdayRepository(db *database.DB) attendance.WorkdayRepository {
	return &attendanceWorkdayRepositoryImpl{db: db}
}

const workdayColumns = `id, company_id, employee_id, work_date, first_in, last_out, minutes_worked, minutes_late, status`

func scanWorkday(row pgx.Row, extra ...any) (attendance.Workday, error) {
	var w attendance.Workday
	dest := []any{
		&w.ID, &w.CompanyID, &w.EmployeeID, &w.WorkDate,
		&w.FirstIn, &w.LastOut, &w.MinutesWorked, &w.MinutesLate, &w.Status,
	}
	err := row.Scan(append(dest, extra...)...)
	return w, err
}

// Upsert implements attendance.WorkdayRepository.
func (r *attendanceWorkdayRepositoryImpl) Upsert(ctx context.Context, scope tenant.Scope, w attendance.Workday) (attendance.Workday, attendance.Status, error) {
	if err := checkScope(scope); err != nil {
		return attendance.Workday{}, "", err
	}
	q := GetQuerier(ctx, r.db)

	// prev reads the snapshot taken before the upsert, so it holds the
	// status the row had before this statement.
	query := `
		WITH prev AS (
			SELECT status FROM attendance_workdays
			WHERE employee_id = $2 AND work_date = $3
		), up AS (
			INSERT INTO attendance_workdays (
				company_id, employee_id, work_date, first_in, last_out, minutes_worked, minutes_late, status
			)
			SELECT e.company_id, e.id, $3, $4, $5, $6, $7, $8
			FROM employees e
			WHERE e.id = $2 AND e.company_id = $1
			ON CONFLICT (employee_id, work_date) DO UPDATE
			SET first_in = EXCLUDED.first_in,
				last_out = EXCLUDED.last_out,
				minutes_worked = EXCLUDED.minutes_worked,
				minutes_late = EXCLUDED.minutes_late,
				status = EXCLUDED.status
			WHERE attendance_workdays.company_id = EXCLUDED.company_id
			RETURNING ` + workdayColumns + `
		)
		SELECT up.*, COALESCE((SELECT status FROM prev), '') FROM up
	`

	var previous attendance.Status
	stored, err := scanWorkday(q.QueryRow(ctx, query,
		scope.CompanyID(), w.EmployeeID, w.WorkDate,
		utcPtr(w.FirstIn), utcPtr(w.LastOut), w.MinutesWorked, w.MinutesLate, w.Status,
	), &previous)
	if err != nil {
		if isNotFound(err) {
			return attendance.Workday{}, "", employee.ErrEmployeeNotFound
		}
		return attendance.Workday{}, "", fmt.Errorf("failed to upsert workday: %w", err)
	}
	return stored, previous, nil
}

// Get implements attendance.WorkdayRepository.
func (r *attendanceWorkdayRepositoryImpl) Get(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (attendance.Workday, error) {
	if err := checkScope(scope); err != nil {
		return attendance.Workday{}, err
	}
	q := GetQuerier(ctx, r.db)

	w, err := scanWorkday(q.QueryRow(ctx, `
		SELECT `+workdayColumns+`
		FROM attendance_workdays
		WHERE company_id = $1 AND employee_id = $2 AND work_date = $3
	`, scope.CompanyID(), employeeID, date))
	if err != nil {
		if isNotFound(err) {
			return attendance.Workday{}, attendance.ErrWorkdayNotFound
		}
		return attendance.Workday{}, fmt.Errorf("failed to get workday: %w", err)
	}
	return w, nil
}

// List implements attendance.WorkdayRepository.
func (r *attendanceWorkdayRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter attendance.WorkdayFilter) ([]attendance.Workday, int64, error) {
	if err := checkScope(scope); err != nil {
		return nil, 0, err
	}
	q := GetQuerier(ctx, r.db)

	where := []string{"company_id = $1", "work_date >= $2", "work_date <= $3"}
	args := []any{scope.CompanyID(), filter.From, filter.To}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_workdays WHERE "+whereClause, args...).Scan(&total); err != nil {
		if isNotFound(err) {
			return []attendance.Workday{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count workdays: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := q.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM attendance_workdays WHERE %s ORDER BY work_date DESC, employee_id LIMIT %d OFFSET %d",
		workdayColumns, whereClause, filter.Limit, offset,
	), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	workdays := make([]attendance.Workday, 0)
	for rows.Next() {
		w, err := scanWorkday(rows)
		if err != nil {
			return nil, 0, err
		}
		workdays = append(workdays, w)
	}
	return workdays, total, rows.Err()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
