package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

const attendanceSheet = "Attendance"

var attendanceHeaders = []string{"Employee Code", "Employee", "Date", "First In", "Last Out", "Minutes Worked", "Minutes Late", "Status"}

type ReportServiceImpl struct {
	reportRepo  report.ReportRepository
	companyRepo company.CompanyRepository
}

func NewReportService(reportRepo report.ReportRepository, companyRepo company.CompanyRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		companyRepo: companyRepo,
	}
}

// AttendanceWorkbook implements report.ReportService.
func (s *ReportServiceImpl) AttendanceWorkbook(ctx context.Context, actor tenant.Actor, scope tenant.Scope, req report.AttendanceReportRequest) (report.AttendanceReport, error) {
	if !user.Can(actor, user.PermissionReportExport) {
		return report.AttendanceReport{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return report.AttendanceReport{}, err
	}

	c, err := s.companyRepo.Get(ctx, scope)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	from, to := req.Range()
	rows, err := s.reportRepo.AttendanceRows(ctx, scope, from, to)
	if err != nil {
		return report.AttendanceReport{}, fmt.Errorf("failed to get attendance data: %w", err)
	}

	content, err := renderAttendance(c, from, to, rows)
	if err != nil {
		slog.Error("failed to render attendance workbook", "company_id", c.ID, "error", err)
		return report.AttendanceReport{}, report.ErrReportGeneration
	}

	return report.AttendanceReport{
		FileName: fmt.Sprintf("attendance_%s_%s_%s.xlsx", c.Username, from.Format("20060102"), to.Format("20060102")),
		Content:  content,
		Rows:     len(rows),
	}, nil
}

func renderAttendance(c company.Company, from, to time.Time, rows []report.AttendanceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(attendanceSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	// Title
	f.SetCellValue(attendanceSheet, "A1", fmt.Sprintf("Attendance report: %s", c.Name))
	f.MergeCell(attendanceSheet, "A1", "H1")
	f.SetCellValue(attendanceSheet, "A2", fmt.Sprintf("Period: %s to %s (%s)", from.Format("2006-01-02"), to.Format("2006-01-02"), c.Timezone))

	// Table headers
	const headerRow = 4
	for i, h := range attendanceHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(attendanceSheet, cell, h)
		f.SetCellStyle(attendanceSheet, cell, cell, headerStyle)
	}

	loc := c.Location()
	for i, r := range rows {
		values := []any{
			r.EmployeeCode,
			r.EmployeeName,
			r.WorkDate.Format("2006-01-02"),
			localClock(r.FirstIn, loc),
			localClock(r.LastOut, loc),
			r.MinutesWorked,
			r.MinutesLate,
			r.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(attendanceSheet, "A", "A", 16)
	f.SetColWidth(attendanceSheet, "B", "B", 28)
	f.SetColWidth(attendanceSheet, "C", "E", 12)
	f.SetColWidth(attendanceSheet, "F", "G", 15)
	f.SetColWidth(attendanceSheet, "H", "H", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func localClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("15:04")
}
