// Package event holds the side effects a service call produces. Services
// return them instead of firing them, and the caller dispatches them once the
// business operation has committed.
package event

import "context"

// Notification categories.
const (
	CategoryAttendance = "attendance"
	CategoryLeave      = "leave"
	CategoryAccount    = "account"
)

// Notification is addressed to one employee of one company.
type Notification struct {
	CompanyID           string
	RecipientEmployeeID string
	Title               string
	Message             string
	Category            string
	Link                string
}

// Audit is an append-only record of who did what to which entity.
type Audit struct {
	CompanyID   *string
	ActorUserID string
	Action      string
	EntityType  string
	EntityID    string
	Detail      map[string]any
}

// NewAudit builds an Audit for a tenant-scoped entity. An empty companyID
// leaves the record unscoped.
func NewAudit(companyID, actorUserID, action, entityType, entityID string, detail map[string]any) Audit {
	a := Audit{
		ActorUserID: actorUserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Detail:      detail,
	}
	if companyID != "" {
		a.CompanyID = &companyID
	}
	return a
}

type Events struct {
	Notifications []Notification
	Audits        []Audit
}

func (e *Events) Notify(n Notification) {
	e.Notifications = append(e.Notifications, n)
}

func (e *Events) Record(a Audit) {
	e.Audits = append(e.Audits, a)
}

// Merge appends the events of other.
func (e *Events) Merge(other Events) {
	e.Notifications = append(e.Notifications, other.Notifications...)
	e.Audits = append(e.Audits, other.Audits...)
}

func (e Events) Empty() bool {
	return len(e.Notifications) == 0 && len(e.Audits) == 0
}

// Notifier is the notification sink. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Auditor is the audit sink.
type Auditor interface {
	Record(ctx context.Context, a Audit) error
}

// Dispatcher delivers the events produced by a service call.
type Dispatcher interface {
	Dispatch(ctx context.Context, events Events) error
}
