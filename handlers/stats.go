package handlers

import (
	"context"
	"net/http"
	"strconv"

	"pharmakiosk/services/stats"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsHandler exposes the dashboard aggregations. Every endpoint takes an
// optional ?frame= query parameter and always answers 200.
type StatsHandler struct {
	Stats  stats.StatsService
	Logger *zap.Logger
}

func NewStatsHandler(svc stats.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: svc, Logger: logger}
}

func frameOf(c *gin.Context) stats.TimeFrame {
	return stats.ParseTimeFrame(c.Query("frame"))
}

func serve[T any](fn func(context.Context, stats.TimeFrame) T) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, fn(c.Request.Context(), frameOf(c)))
	}
}

func (h *StatsHandler) DashboardKPIsHandler(c *gin.Context) {
	serve(h.Stats.DashboardKPIs)(c)
}

func (h *StatsHandler) SatisfactionRateHandler(c *gin.Context) {
	serve(h.Stats.SatisfactionRate)(c)
}

func (h *StatsHandler) AverageRatingHandler(c *gin.Context) {
	serve(h.Stats.AverageRating)(c)
}

func (h *StatsHandler) StarDistributionHandler(c *gin.Context) {
	serve(h.Stats.StarRatingDistribution)(c)
}

func (h *StatsHandler) VisitorCountHandler(c *gin.Context) {
	serve(h.Stats.VisitorCount)(c)
}

func (h *StatsHandler) ParticipationRateHandler(c *gin.Context) {
	serve(h.Stats.ParticipationRate)(c)
}

func (h *StatsHandler) EmployeeStatsHandler(c *gin.Context) {
	serve(h.Stats.EmployeeRatingStats)(c)
}

func (h *StatsHandler) CompletionRateHandler(c *gin.Context) {
	serve(h.Stats.CompletionRate)(c)
}

func (h *StatsHandler) TimeOfDayHandler(c *gin.Context) {
	serve(h.Stats.FeedbackByTimeOfDay)(c)
}

// RecentFeedbackHandler returns the latest sessions with feedback (?limit=).
func (h *StatsHandler) RecentFeedbackHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		badRequest(c, "invalid limit", err)
		return
	}
	c.JSON(http.StatusOK, h.Stats.RecentFeedback(c.Request.Context(), limit))
}
