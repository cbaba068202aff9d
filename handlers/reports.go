package handlers

import (
	"net/http"

	"pharmakiosk/middleware"
	"pharmakiosk/models"
	"pharmakiosk/services/report"
	"pharmakiosk/services/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	Reports report.ReportService
	Tasks   tasks.Enqueuer // nil generates the monthly report inline
	Logger  *zap.Logger
}

func NewReportHandler(reports report.ReportService, enqueuer tasks.Enqueuer, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{Reports: reports, Tasks: enqueuer, Logger: logger}
}

func (h *ReportHandler) GenerateReportHandler(c *gin.Context) {
	var req report.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	req.UserID = c.GetString(middleware.AdminIDKey)

	rep, err := h.Reports.GenerateReport(c.Request.Context(), req)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusCreated, rep)
}

func (h *ReportHandler) ListReportsHandler(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		badRequest(c, "invalid pagination", err)
		return
	}
	result, err := h.Reports.ListReports(c.Request.Context(), models.ReportType(c.Query("type")), page, limit)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReportHandler) GetReportHandler(c *gin.Context) {
	rep, err := h.Reports.GetReportByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch report")
		return
	}
	c.JSON(http.StatusOK, rep)
}

// DownloadReportHandler streams the report file as an attachment.
func (h *ReportHandler) DownloadReportHandler(c *gin.Context) {
	rep, err := h.Reports.DownloadReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to download report")
		return
	}
	c.FileAttachment(rep.FilePath, rep.Name)
}

func (h *ReportHandler) DeleteReportHandler(c *gin.Context) {
	if err := h.Reports.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to delete report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// MonthlyReportHandler queues the previous month's summary report.
func (h *ReportHandler) MonthlyReportHandler(c *gin.Context) {
	if h.Tasks == nil {
		rep, err := h.Reports.GenerateMonthlyReport(c.Request.Context())
		if err != nil {
			respondError(c, getLogger(c, h.Logger), err, "Failed to generate monthly report")
			return
		}
		c.JSON(http.StatusCreated, rep)
		return
	}
	taskID, err := h.Tasks.EnqueueMonthlyReport(c.Request.Context(), c.GetString(middleware.AdminIDKey))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to queue monthly report")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskId": taskID})
}
