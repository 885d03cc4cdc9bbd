package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

// Append implements audit.Repository.
func (r *auditRepositoryImpl) Append(ctx context.Context, e audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	detail := e.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal audit detail: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_events (company_id, actor_user_id, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.CompanyID, e.ActorUserID, e.Action, e.EntityType, e.EntityID, detailJSON)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}
