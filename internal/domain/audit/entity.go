package audit

import (
	"context"
	"time"
)

// Entry is one row of the audit trail. The trail is append-only and is not
// read back by business logic.
type Entry struct {
	ID          string
	CompanyID   *string
	ActorUserID *string
	Action      string
	EntityType  string
	EntityID    string
	Detail      map[string]any
	CreatedAt   time.Time
}

type Repository interface {
	Append(ctx context.Context, e Entry) error
}
