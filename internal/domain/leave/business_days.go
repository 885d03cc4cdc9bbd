package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
)

// MaxRequestDays bounds the calendar length of one request.
const MaxRequestDays = 366

var (
	ErrEndBeforeStart = apperror.New(apperror.ErrValidation, "end_date must not be before start_date")
	ErrRangeTooLong   = apperror.New(apperror.ErrValidation, "leave request must not span more than 366 days")
)

// BusinessDays counts Monday to Friday between start and end inclusive.
// Only the civil date of each argument is used. No holiday calendar is
// consulted.
func BusinessDays(start, end time.Time) (int, error) {
	start = workcal.Date(start.Year(), start.Month(), start.Day())
	end = workcal.Date(end.Year(), end.Month(), end.Day())

	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}

	days := 0
	for d := start; !d.After(end); d = workcal.AddDays(d, 1) {
		if workcal.Workweek.Has(d.Weekday()) {
			days++
		}
	}
	return days, nil
}

// CalendarDays counts every day between start and end inclusive.
func CalendarDays(start, end time.Time) int {
	start = workcal.Date(start.Year(), start.Month(), start.Day())
	end = workcal.Date(end.Year(), end.Month(), end.Day())
	return int(end.Sub(start).Hours()/24) + 1
}
