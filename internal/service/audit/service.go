package audit

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/event"
)

type AuditorImpl struct {
	repo audit.Repository
}

func NewAuditor(repo audit.Repository) event.Auditor {
	return &AuditorImpl{repo: repo}
}

// Record implements event.Auditor.
func (a *AuditorImpl) Record(ctx context.Context, e event.Audit) error {
	var actor *string
	if e.ActorUserID != "" && e.ActorUserID != "system" {
		actor = &e.ActorUserID
	}
	return a.repo.Append(ctx, audit.Entry{
		CompanyID:   e.CompanyID,
		ActorUserID: actor,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Detail:      e.Detail,
	})
}
