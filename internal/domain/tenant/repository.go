package tenant

import "context"

// SelectionRepository remembers the last tenant a global actor selected.
type SelectionRepository interface {
	// Remembered returns "" when the user has no stored selection.
	Remembered(ctx context.Context, userID string) (string, error)
	Remember(ctx context.Context, userID, companyID string) error
}
