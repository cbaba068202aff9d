package report

import "errors"

var (
	ErrReportNotFound        = errors.New("report not found")
	ErrReportFileMissing     = errors.New("report file is missing")
	ErrInvalidReportType     = errors.New("invalid report type")
	ErrInvalidFormat         = errors.New("invalid report format")
	ErrInvalidSentiment      = errors.New("invalid sentiment filter")
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrMonthlyReportDisabled = errors.New("monthly report is disabled")
)
