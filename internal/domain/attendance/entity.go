package attendance

import "time"

type EventKind string

const (
	KindCheckIn  EventKind = "check_in"
	KindCheckOut EventKind = "check_out"
	KindPauseIn  EventKind = "pause_in"  // break starts
	KindPauseOut EventKind = "pause_out" // break ends
)

func (k EventKind) Valid() bool {
	switch k {
	case KindCheckIn, KindCheckOut, KindPauseIn, KindPauseOut:
		return true
	}
	return false
}

// Event is an immutable punch. Events are only ever appended.
type Event struct {
	ID               string
	CompanyID        string
	EmployeeID       string
	Kind             EventKind
	OccurredAt       time.Time
	Latitude         *float64
	Longitude        *float64
	RecordedByUserID *string
	CreatedAt        time.Time
}

type Status string

const (
	StatusOnTime     Status = "on_time"
	StatusLate       Status = "late"
	StatusAbsent     Status = "absent"
	StatusExcused    Status = "excused"
	StatusIncomplete Status = "incomplete"
	StatusDayOff     Status = "day_off"
)

// Alerting reports whether entering this status notifies the employee.
func (s Status) Alerting() bool {
	return s == StatusLate || s == StatusAbsent
}

// Workday is the derived summary of one employee's date. It is computed from
// events, never edited, and stored once per (employee, date).
type Workday struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	WorkDate      time.Time
	FirstIn       *time.Time
	LastOut       *time.Time
	MinutesWorked int
	MinutesLate   int
	Status        Status
}
