package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/database"
)

type tenantSelectionRepositoryImpl struct {
	db *database.DB
}

func NewTenantSelectionRepository(db *database.DB) tenant.SelectionRepository {
	return &tenantSelectionRepositoryImpl{db: db}
}

// Remembered implements tenant.SelectionRepository.
func (r *tenantSelectionRepositoryImpl) Remembered(ctx context.Context, userID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var companyID string
	err := q.QueryRow(ctx, `SELECT company_id::text FROM tenant_selections WHERE user_id = $1`, userID).Scan(&companyID)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return companyID, nil
}

// Remember implements tenant.SelectionRepository.
func (r *tenantSelectionRepositoryImpl) Remember(ctx context.Context, userID, companyID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO tenant_selections (user_id, company_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET company_id = EXCLUDED.company_id, updated_at = NOW()
	`, userID, companyID)
	return err
}
