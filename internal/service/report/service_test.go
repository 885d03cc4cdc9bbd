package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/company"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/workcal"
	"github.com/cmlabs-hris/hris-workforce-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubRows struct {
	rows     []report.AttendanceRow
	from, to time.Time
}

func (s *stubRows) AttendanceRows(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]report.AttendanceRow, error) {
	s.from, s.to = from, to
	return s.rows, nil
}

func TestAttendanceWorkbook(t *testing.T) {
	store := testutil.NewStore()
	_, scope := store.AddCompany(company.Company{Name: "Acme", Username: "acme", Timezone: "Asia/Jakarta"})

	firstIn := time.Date(2026, time.January, 14, 2, 5, 0, 0, time.UTC)
	lastOut := time.Date(2026, time.January, 14, 10, 0, 0, 0, time.UTC)
	repo := &stubRows{rows: []report.AttendanceRow{{
		EmployeeCode:  "E-001",
		EmployeeName:  "Ana Gómez",
		WorkDate:      workcal.Date(2026, time.January, 14),
		FirstIn:       &firstIn,
		LastOut:       &lastOut,
		MinutesWorked: 475,
		MinutesLate:   5,
		Status:        "late",
	}, {
		EmployeeCode: "E-002",
		EmployeeName: "Luis Pérez",
		WorkDate:     workcal.Date(2026, time.January, 14),
		Status:       "absent",
	}}}
	svc := NewReportService(repo, store.Companies())
	manager := tenant.Actor{UserID: "u1", Role: string(user.RoleManager)}

	got, err := svc.AttendanceWorkbook(context.Background(), manager, scope, report.AttendanceReportRequest{From: "2026-01-01", To: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "attendance_acme_20260101_20260131.xlsx", got.FileName)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, workcal.Date(2026, time.January, 1), repo.from)
	assert.Equal(t, workcal.Date(2026, time.January, 31), repo.to)

	f, err := excelize.OpenReader(bytes.NewReader(got.Content))
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Attendance", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Employee Code", cell("A4"))
	assert.Equal(t, "E-001", cell("A5"))
	// Times are shown on the tenant's clock (UTC+7).
	assert.Equal(t, "09:05", cell("D5"))
	assert.Equal(t, "17:00", cell("E5"))
	assert.Equal(t, "late", cell("H5"))
	assert.Equal(t, "", cell("D6"))
	assert.Equal(t, "absent", cell("H6"))
}

func TestAttendanceWorkbook_Rejects(t *testing.T) {
	store := testutil.NewStore()
	_, scope := store.AddCompany(company.Company{Name: "Acme", Username: "acme"})
	svc := NewReportService(&stubRows{}, store.Companies())

	staff := tenant.Actor{UserID: "u2", Role: string(user.RoleEmployee)}
	_, err := svc.AttendanceWorkbook(context.Background(), staff, scope, report.AttendanceReportRequest{From: "2026-01-01", To: "2026-01-31"})
	assert.True(t, errors.Is(err, apperror.ErrAuthorization))

	owner := tenant.Actor{UserID: "u1", Role: string(user.RoleOwner)}
	_, err = svc.AttendanceWorkbook(context.Background(), owner, scope, report.AttendanceReportRequest{From: "2026-02-01", To: "2026-01-01"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = svc.AttendanceWorkbook(context.Background(), owner, scope, report.AttendanceReportRequest{From: "2026-01-01", To: "2026-12-31"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}
