package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type approvalRecordRepositoryImpl struct {
	db *database.DB
}

func NewApprovalRecordRepository(db *database.DB) leave.ApprovalRecordRepository {
	return &approvalRecordRepositoryImpl{db: db}
}

const approvalRecordColumns = `id, company_id, leave_request_id, actor_user_id, actor_employee_id, action, comment, created_at`

func scanApprovalRecord(row pgx.Row) (leave.ApprovalRecord, error) {
	var rec leave.ApprovalRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.LeaveRequestID, &rec.ActorUserID,
		&rec.ActorEmployeeID, &rec.Action, &rec.Comment, &rec.CreatedAt,
	)
	return rec, err
}

// Append implements leave.ApprovalRecordRepository.
func (r *approvalRecordRepositoryImpl) Append(ctx context.Context, scope tenant.Scope, rec leave.ApprovalRecord) (leave.ApprovalRecord, error) {
	if err := checkScope(scope); err != nil {
		return leave.ApprovalRecord{}, err
	}
	q := GetQuerier(ctx, r.db)

	stored, err := scanApprovalRecord(q.QueryRow(ctx, `
		INSERT INTO leave_approval_records (company_id, leave_request_id, actor_user_id, actor_employee_id, action, comment)
		SELECT lr.company_id, lr.id, $3, $4, $5, $6
		FROM leave_requests lr
		WHERE lr.id = $2 AND lr.company_id = $1
		RETURNING `+approvalRecordColumns,
		scope.CompanyID(), rec.LeaveRequestID, rec.ActorUserID, rec.ActorEmployeeID, rec.Action, rec.Comment,
	))
	if err != nil {
		if isNotFound(err) {
			return leave.ApprovalRecord{}, leave.ErrLeaveRequestNotFound
		}
		return leave.ApprovalRecord{}, fmt.Errorf("failed to append approval record: %w", err)
	}
	return stored, nil
}

// ListByRequest implements leave.ApprovalRecordRepository.
func (r *approvalRecordRepositoryImpl) ListByRequest(ctx context.Context, scope tenant.Scope, requestID string) ([]leave.ApprovalRecord, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+approvalRecordColumns+`
		FROM leave_approval_records
		WHERE company_id = $1 AND leave_request_id = $2
		ORDER BY created_at, id
	`, scope.CompanyID(), requestID)
	if err != nil {
		if isNotFound(err) {
			return []leave.ApprovalRecord{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	records := make([]leave.ApprovalRecord, 0)
	for rows.Next() {
		rec, err := scanApprovalRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
