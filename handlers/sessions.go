package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pharmakiosk/models"
	"pharmakiosk/services/session"
	"pharmakiosk/services/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionAdminHandler serves the back-office feedback table and the sweep trigger.
type SessionAdminHandler struct {
	Sessions session.SessionService
	Tasks    tasks.Enqueuer // nil runs the sweep inline
	Logger   *zap.Logger
}

func NewSessionAdminHandler(sessions session.SessionService, enqueuer tasks.Enqueuer, logger *zap.Logger) *SessionAdminHandler {
	return &SessionAdminHandler{Sessions: sessions, Tasks: enqueuer, Logger: logger}
}

// parseDate accepts RFC 3339 timestamps or plain 2006-01-02 dates.
func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	return t, nil
}

func pageParams(c *gin.Context) (page, limit int64, err error) {
	page, err = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page: %w", err)
	}
	limit, err = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid limit: %w", err)
	}
	return page, limit, nil
}

func (h *SessionAdminHandler) ListSessionsHandler(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		badRequest(c, "invalid pagination", err)
		return
	}
	from, err := parseDate(c.Query("from"))
	if err != nil {
		badRequest(c, "invalid from", err)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		badRequest(c, "invalid to", err)
		return
	}

	result, err := h.Sessions.ListSessions(c.Request.Context(), session.ListFilter{
		Status:   models.SessionStatus(c.Query("status")),
		DeviceID: c.Query("deviceId"),
		From:     from,
		To:       to,
		WithData: c.Query("withData") == "true",
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to list sessions")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionAdminHandler) GetSessionHandler(c *gin.Context) {
	sess, err := h.Sessions.GetSessionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch session")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionAdminHandler) DeleteSessionHandler(c *gin.Context) {
	if err := h.Sessions.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to delete session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// SweepHandler queues a sweep of stale sessions (?olderThan= minutes). Without
// a queue the sweep runs inside the request and its count is returned.
func (h *SessionAdminHandler) SweepHandler(c *gin.Context) {
	olderThan, err := strconv.Atoi(c.DefaultQuery("olderThan", "0"))
	if err != nil {
		badRequest(c, "invalid olderThan", err)
		return
	}

	if h.Tasks == nil {
		count := h.Sessions.ProcessAbandonedSessions(c.Request.Context(), olderThan)
		c.JSON(http.StatusOK, gin.H{"processed": count})
		return
	}
	taskID, err := h.Tasks.EnqueueSweep(c.Request.Context(), olderThan)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to queue sweep")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskId": taskID})
}
