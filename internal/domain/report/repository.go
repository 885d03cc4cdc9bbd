package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

type ReportRepository interface {
	// AttendanceRows returns the stored workdays in [from, to] ordered by
	// employee code and date.
	AttendanceRows(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]AttendanceRow, error)
}
