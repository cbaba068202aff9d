package handlers

import (
	"errors"
	"net/http"

	"pharmakiosk/services/report"
	"pharmakiosk/services/session"
	"pharmakiosk/services/settings"
	"pharmakiosk/services/staff"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, report.ErrReportFileMissing),
		errors.Is(err, staff.ErrEmployeeNotFound),
		errors.Is(err, staff.ErrPositionNotFound):
		return http.StatusNotFound

	case errors.Is(err, session.ErrInvalidRating),
		errors.Is(err, session.ErrMissingDeviceID),
		errors.Is(err, session.ErrMissingEmployeeID),
		errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, report.ErrInvalidReportType),
		errors.Is(err, report.ErrInvalidFormat),
		errors.Is(err, report.ErrInvalidSentiment),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, staff.ErrInvalidEmployee),
		errors.Is(err, staff.ErrInvalidPosition),
		errors.Is(err, staff.ErrWeakPassword),
		errors.Is(err, settings.ErrInvalidSettings):
		return http.StatusBadRequest

	case errors.Is(err, session.ErrSessionClosed),
		errors.Is(err, session.ErrVersionConflict),
		errors.Is(err, staff.ErrPositionInUse),
		errors.Is(err, report.ErrMonthlyReportDisabled):
		return http.StatusConflict

	case errors.Is(err, staff.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Server errors hide their details
// behind message and are logged at error level.
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": message})
		return
	}
	logger.Warn(message, zap.Error(err), zap.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
