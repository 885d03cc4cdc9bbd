package report

import (
	"context"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// AttendanceWorkbook renders the workdays of a date range as XLSX
	AttendanceWorkbook(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req AttendanceReportRequest) (AttendanceReport, error)
}
