package handlers

import (
	"net/http"

	"pharmakiosk/models"
	"pharmakiosk/services/session"
	"pharmakiosk/services/settings"
	"pharmakiosk/services/staff"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KioskHandler serves the public endpoints used by the feedback tablet.
type KioskHandler struct {
	Sessions session.SessionService
	Staff    staff.StaffService
	Settings settings.SettingsService
	Logger   *zap.Logger
}

func NewKioskHandler(sessions session.SessionService, staffSvc staff.StaffService, settingsSvc settings.SettingsService, logger *zap.Logger) *KioskHandler {
	return &KioskHandler{Sessions: sessions, Staff: staffSvc, Settings: settingsSvc, Logger: logger}
}

// InitSessionHandler starts a session for a kiosk.
func (h *KioskHandler) InitSessionHandler(c *gin.Context) {
	var input struct {
		DeviceID          string `json:"deviceId"`
		InactivityTimeout int    `json:"inactivityTimeout"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}

	sess, err := h.Sessions.InitializeSession(c.Request.Context(), input.DeviceID, input.InactivityTimeout)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to start session")
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *KioskHandler) GetSessionHandler(c *gin.Context) {
	sess, err := h.Sessions.GetSessionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch session")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *KioskHandler) UpdatePharmacyRatingHandler(c *gin.Context) {
	var input struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	sess, err := h.Sessions.UpdatePharmacyRating(c.Request.Context(), c.Param("id"), input.Rating)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update pharmacy rating")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *KioskHandler) UpdateEmployeeRatingsHandler(c *gin.Context) {
	var input struct {
		EmployeeRatings []models.EmployeeRating `json:"employeeRatings"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	sess, err := h.Sessions.UpdateEmployeeRatings(c.Request.Context(), c.Param("id"), input.EmployeeRatings)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update employee ratings")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *KioskHandler) UpdateClientDataHandler(c *gin.Context) {
	var input models.ClientData
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	sess, err := h.Sessions.UpdateClientData(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update client data")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *KioskHandler) UpdateSuggestionHandler(c *gin.Context) {
	var input struct {
		Suggestion string `json:"suggestion"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	sess, err := h.Sessions.UpdateSuggestion(c.Request.Context(), c.Param("id"), input.Suggestion)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update suggestion")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *KioskHandler) CompleteSessionHandler(c *gin.Context) {
	sess, err := h.Sessions.CompleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to complete session")
		return
	}
	c.JSON(http.StatusOK, sess)
}

// SyncHandler replays the kiosk's offline queue, one action per call.
func (h *KioskHandler) SyncHandler(c *gin.Context) {
	var req session.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	sess, err := h.Sessions.SyncSession(c.Request.Context(), req)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to sync session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}

// ListEmployeesHandler returns the active employees shown on the rating page.
func (h *KioskHandler) ListEmployeesHandler(c *gin.Context) {
	employees, err := h.Staff.ListEmployees(c.Request.Context(), true)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetSettingsHandler returns the display and feedback-page settings.
func (h *KioskHandler) GetSettingsHandler(c *gin.Context) {
	st, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"display":      st.Display,
		"feedbackPage": st.FeedbackPage,
	})
}
