package report

import "github.com/cmlabs-hris/hris-workforce-go/internal/pkg/apperror"

var (
	ErrReportGeneration = apperror.New(apperror.ErrInvalidState, "failed to generate report")
)
