package handlers

import (
	"io"
	"net/http"

	"pharmakiosk/services/settings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	Settings settings.SettingsService
	Logger   *zap.Logger
}

func NewSettingsHandler(svc settings.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{Settings: svc, Logger: logger}
}

func (h *SettingsHandler) GetSettingsHandler(c *gin.Context) {
	st, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateSettingsHandler merges the JSON body into the stored settings.
func (h *SettingsHandler) UpdateSettingsHandler(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		badRequest(c, "failed to read body", err)
		return
	}
	st, err := h.Settings.Update(c.Request.Context(), body)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, st)
}
