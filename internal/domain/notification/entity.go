package notification

import (
	"time"
)

// Notification is an in-app message for one employee.
type Notification struct {
	ID                  string
	CompanyID           string
	RecipientEmployeeID string
	Category            string
	Title               string
	Message             string
	Link                *string
	IsRead              bool
	ReadAt              *time.Time
	CreatedAt           time.Time
}
