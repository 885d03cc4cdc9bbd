package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.company_id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
		lr.business_days, lr.reason, lr.document_ref, lr.status, lr.approver_employee_id,
		lr.decided_at, lr.created_at, lr.updated_at,
		e.full_name, lt.name
	FROM leave_requests lr
	INNER JOIN employees e ON e.id = lr.employee_id
	INNER JOIN leave_types lt ON lt.id = lr.leave_type_id
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.CompanyID,
		&lr.EmployeeID,
		&lr.LeaveTypeID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.BusinessDays,
		&lr.Reason,
		&lr.DocumentRef,
		&lr.Status,
		&lr.ApproverEmployeeID,
		&lr.DecidedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
		&lr.EmployeeName,
		&lr.LeaveTypeName,
	)
	return lr, err
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (leave.LeaveRequest, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveRequest{}, err
	}
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx,
		leaveRequestSelect+` WHERE lr.id = $1 AND lr.company_id = $2 AND lr.deleted_at IS NULL`,
		id, scope.CompanyID(),
	))
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %s: %w", id, err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, scope tenant.Scope, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	if err := checkScope(scope); err != nil {
		return nil, 0, err
	}
	q := GetQuerier(ctx, r.db)

	where := []string{"lr.company_id = $1", "lr.deleted_at IS NULL"}
	args := []any{scope.CompanyID()}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where = append(where, fmt.Sprintf("lr.employee_id = $%d", len(args)))
	}
	if filter.ApproverID != nil {
		args = append(args, *filter.ApproverID)
		where = append(where, fmt.Sprintf("lr.approver_employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("lr.status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("lr.end_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("lr.start_date <= $%d", len(args)))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests lr"+whereClause, args...).Scan(&total); err != nil {
		if isNotFound(err) {
			return []leave.LeaveRequest{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := q.Query(ctx,
		leaveRequestSelect+whereClause+fmt.Sprintf(" ORDER BY lr.created_at DESC LIMIT %d OFFSET %d", filter.Limit, offset),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}
	return requests, total, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, scope tenant.Scope, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveRequest{}, err
	}
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO leave_requests (
			company_id, employee_id, leave_type_id, start_date, end_date,
			business_days, reason, document_ref, status, approver_employee_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		scope.CompanyID(), req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate,
		req.BusinessDays, req.Reason, req.DocumentRef, req.Status, req.ApproverEmployeeID,
	).Scan(&id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r.GetByID(ctx, scope, id)
}

// UpdatePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdatePending(ctx context.Context, scope tenant.Scope, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveRequest{}, err
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET leave_type_id = $1, start_date = $2, end_date = $3, business_days = $4,
			reason = $5, document_ref = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8 AND status = 'pending' AND deleted_at IS NULL
	`,
		req.LeaveTypeID, req.StartDate, req.EndDate, req.BusinessDays,
		req.Reason, req.DocumentRef, req.ID, scope.CompanyID(),
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request %s: %w", req.ID, err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.LeaveRequest{}, r.missOnPending(ctx, scope, req.ID, leave.ErrNotPending)
	}

	return r.GetByID(ctx, scope, req.ID)
}

// DeletePending implements leave.LeaveRequestRepository. The row is kept with
// deleted_at set so its approval history stays readable in the audit trail.
func (r *leaveRequestRepositoryImpl) DeletePending(ctx context.Context, scope tenant.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'pending' AND deleted_at IS NULL
	`, id, scope.CompanyID())
	if err != nil {
		return fmt.Errorf("failed to delete leave request %s: %w", id, err)
	}
	if commandTag.RowsAffected() != 1 {
		return r.missOnPending(ctx, scope, id, leave.ErrNotPending)
	}
	return nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, scope tenant.Scope, id string, status leave.Status, decidedAt time.Time) (leave.LeaveRequest, error) {
	if err := checkScope(scope); err != nil {
		return leave.LeaveRequest{}, err
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET status = $1, decided_at = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND status = 'pending' AND deleted_at IS NULL
	`, status, decidedAt.UTC(), id, scope.CompanyID())
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request %s: %w", id, err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.LeaveRequest{}, r.missOnPending(ctx, scope, id, leave.ErrAlreadyDecided)
	}

	return r.GetByID(ctx, scope, id)
}

// missOnPending explains why a pending-only write touched no row.
func (r *leaveRequestRepositoryImpl) missOnPending(ctx context.Context, scope tenant.Scope, id string, notPending error) error {
	if _, err := r.GetByID(ctx, scope, id); err != nil {
		return err
	}
	return notPending
}

// HasOverlap implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, scope tenant.Scope, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	if err := checkScope(scope); err != nil {
		return false, err
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE company_id = $1 AND employee_id = $2
				AND status IN ('pending', 'approved') AND deleted_at IS NULL
				AND start_date <= $4 AND end_date >= $3
				AND id::text <> $5
		)
	`, scope.CompanyID(), employeeID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// HasApprovedLeave implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasApprovedLeave(ctx context.Context, scope tenant.Scope, employeeID string, date time.Time) (bool, error) {
	if err := checkScope(scope); err != nil {
		return false, err
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leave_requests
			WHERE company_id = $1 AND employee_id = $2
				AND status = 'approved' AND deleted_at IS NULL
				AND start_date <= $3 AND end_date >= $3
		)
	`, scope.CompanyID(), employeeID, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
