package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
)

// ClassifyInput is everything the classification of one date depends on.
type ClassifyInput struct {
	CompanyID  string
	EmployeeID string
	// Date is the civil date being classified (see workcal.Date).
	Date     time.Time
	Location *time.Location
	// Events of the employee whose local date is Date, in any order.
	Events           []Event
	ShiftStart       workcal.ClockTime
	ToleranceMinutes int
	WorkingDays      workcal.WeekdaySet
	// Excused is set when approved leave covers Date.
	Excused bool
	Now     time.Time
}

// Classify derives the workday summary. The result depends only on the
// input. ok is false when the date has not ended and has no events yet,
// in which case there is nothing to store.
func Classify(in ClassifyInput) (Workday, bool) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	wd := Workday{
		CompanyID:  in.CompanyID,
		EmployeeID: in.EmployeeID,
		WorkDate:   workcal.Date(in.Date.Year(), in.Date.Month(), in.Date.Day()),
	}

	_, dayEnd := workcal.DayBounds(wd.WorkDate, loc)
	ended := !in.Now.Before(dayEnd)
	working := in.WorkingDays.Has(wd.WorkDate.Weekday())

	if len(in.Events) == 0 && !ended {
		return Workday{}, false
	}

	events := sortedEvents(in.Events)
	firstIn, lastOut := span(events)
	wd.FirstIn = firstIn
	wd.LastOut = lastOut

	if firstIn != nil && lastOut != nil {
		wd.MinutesWorked = workedMinutes(events, *firstIn, *lastOut)
	}

	switch {
	case !working:
		wd.Status = StatusDayOff
		return wd, true
	case firstIn == nil && in.Excused:
		wd.Status = StatusExcused
		return wd, true
	case len(events) == 0:
		wd.Status = StatusAbsent
		return wd, true
	case firstIn == nil:
		wd.Status = StatusIncomplete
		return wd, true
	}

	// Lateness is counted in whole minutes so a late check-in never
	// reports zero minutes.
	minutesLate := int(firstIn.Sub(in.ShiftStart.On(wd.WorkDate, loc)) / time.Minute)
	if minutesLate > in.ToleranceMinutes {
		wd.Status = StatusLate
		wd.MinutesLate = minutesLate
	} else {
		wd.Status = StatusOnTime
	}

	if lastOut == nil && ended {
		wd.Status = StatusIncomplete
	}
	return wd, true
}

func sortedEvents(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out
}

// span returns the earliest check-in and the latest check-out after it.
func span(events []Event) (*time.Time, *time.Time) {
	var firstIn, lastOut *time.Time
	for i := range events {
		if events[i].Kind == KindCheckIn {
			t := events[i].OccurredAt.UTC()
			firstIn = &t
			break
		}
	}
	if firstIn == nil {
		return nil, nil
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == KindCheckOut && events[i].OccurredAt.After(*firstIn) {
			t := events[i].OccurredAt.UTC()
			lastOut = &t
			break
		}
	}
	return firstIn, lastOut
}

// workedMinutes is the span minus breaks, floored to whole minutes. Breaks are
// clipped to the span; a break still open at the end runs until lastOut.
func workedMinutes(events []Event, firstIn, lastOut time.Time) int {
	var paused time.Duration
	var breakStart *time.Time

	clip := func(t time.Time) time.Time {
		if t.Before(firstIn) {
			return firstIn
		}
		if t.After(lastOut) {
			return lastOut
		}
		return t
	}

	for i := range events {
		at := clip(events[i].OccurredAt)
		switch events[i].Kind {
		case KindPauseIn:
			if breakStart == nil {
				breakStart = &at
			}
		case KindPauseOut:
			if breakStart != nil {
				paused += at.Sub(*breakStart)
				breakStart = nil
			}
		}
	}
	if breakStart != nil {
		paused += lastOut.Sub(*breakStart)
	}

	worked := lastOut.Sub(firstIn) - paused
	if worked < 0 {
		return 0
	}
	return int(worked / time.Minute)
}
