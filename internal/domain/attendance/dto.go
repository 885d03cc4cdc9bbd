package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

type RecordEventRequest struct {
	// EmployeeID defaults to the caller's own employee profile.
	EmployeeID *string  `json:"employee_id,omitempty"`
	Kind       string   `json:"kind"`
	OccurredAt *string  `json:"occurred_at,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	occurredAt time.Time
}

func (r *RecordEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if !EventKind(r.Kind).Valid() {
		errs.Add("kind", "kind must be one of: check_in, check_out, pause_in, pause_out")
	}
	if r.OccurredAt != nil {
		t, ok := validator.IsValidDateTime(*r.OccurredAt)
		if !ok {
			errs.Add("occurred_at", "occurred_at must be an RFC3339 timestamp")
		}
		r.occurredAt = t
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs.Add("latitude", "latitude and longitude must be sent together")
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}

	return errs.Err()
}

// Time returns the parsed occurred_at, or now when it was omitted.
func (r RecordEventRequest) Time(now time.Time) time.Time {
	if r.OccurredAt == nil {
		return now
	}
	return r.occurredAt
}

type RecomputeRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`

	date time.Time
}

func (r *RecomputeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs.Add("date", "date must be YYYY-MM-DD")
	}
	r.date = d

	return errs.Err()
}

func (r RecomputeRequest) ParsedDate() time.Time {
	return r.date
}

type EventResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Kind       EventKind `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Kind:       e.Kind,
		OccurredAt: e.OccurredAt,
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		CreatedAt:  e.CreatedAt,
	}
}

type WorkdayResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	WorkDate      string     `json:"work_date"`
	FirstIn       *time.Time `json:"first_in"`
	LastOut       *time.Time `json:"last_out"`
	MinutesWorked int        `json:"minutes_worked"`
	MinutesLate   int        `json:"minutes_late"`
	Status        Status     `json:"status"`
}

func NewWorkdayResponse(w Workday) WorkdayResponse {
	return WorkdayResponse{
		ID:            w.ID,
		EmployeeID:    w.EmployeeID,
		WorkDate:      w.WorkDate.Format("2006-01-02"),
		FirstIn:       w.FirstIn,
		LastOut:       w.LastOut,
		MinutesWorked: w.MinutesWorked,
		MinutesLate:   w.MinutesLate,
		Status:        w.Status,
	}
}

type RecordEventResponse struct {
	Event   EventResponse    `json:"event"`
	Workday *WorkdayResponse `json:"workday,omitempty"`
}

type EventFilter struct {
	EmployeeID *string
	From       time.Time
	To         time.Time
}

type WorkdayFilter struct {
	EmployeeID *string
	Status     *Status
	From       time.Time
	To         time.Time
	Page       int
	Limit      int
}

func (f *WorkdayFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 50
	}
}

type ListWorkdayResponse struct {
	Workdays   []WorkdayResponse `json:"workdays"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// RecomputeDayResult summarizes a batch recomputation of one tenant date.
type RecomputeDayResult struct {
	Date     string `json:"date"`
	Computed int    `json:"computed"`
	Skipped  int    `json:"skipped"`
}
