package report

import (
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/validator"
)

// MaxRangeDays bounds a single export.
const MaxRangeDays = 92

type AttendanceReportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *AttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.From)
	if !okFrom {
		errs.Add("from", "from must be a date in YYYY-MM-DD format")
	}
	to, okTo := validator.IsValidDate(r.To)
	if !okTo {
		errs.Add("to", "to must be a date in YYYY-MM-DD format")
	}
	if okFrom && okTo {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if int(to.Sub(from).Hours()/24)+1 > MaxRangeDays {
			errs.Add("to", "range must not exceed 92 days")
		}
	}

	return errs.Err()
}

// Range returns the parsed bounds. Call after Validate.
func (r *AttendanceReportRequest) Range() (time.Time, time.Time) {
	from, _ := validator.IsValidDate(r.From)
	to, _ := validator.IsValidDate(r.To)
	return from, to
}

// AttendanceRow is one workday line of the export.
type AttendanceRow struct {
	EmployeeCode  string
	EmployeeName  string
	WorkDate      time.Time
	FirstIn       *time.Time
	LastOut       *time.Time
	MinutesWorked int
	MinutesLate   int
	Status        string
}

// AttendanceReport is a rendered workbook.
type AttendanceReport struct {
	FileName string
	Content  []byte
	Rows     int
}
