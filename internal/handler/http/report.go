package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	AttendanceXLSX(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// AttendanceXLSX handles GET /reports/attendance.xlsx?from=&to=
func (h *reportHandlerImpl) AttendanceXLSX(w http.ResponseWriter, r *http.Request) {
	actor, scope, ok := actorScope(w, r)
	if !ok {
		return
	}

	req := report.AttendanceReportRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.reportService.AttendanceWorkbook(r.Context(), actor, scope, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, xlsxContentType, result.FileName, result.Content)
}
