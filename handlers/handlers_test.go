package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pharmakiosk/middleware"
	"pharmakiosk/models"
	"pharmakiosk/services/report"
	"pharmakiosk/services/session"
	"pharmakiosk/services/settings"
	"pharmakiosk/services/staff"
	"pharmakiosk/services/stats"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func asAdmin(c *gin.Context) {
	c.Set(middleware.AdminIDKey, "admin-1")
	c.Next()
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", staff.ErrPositionNotFound), http.StatusNotFound},
		{report.ErrReportFileMissing, http.StatusNotFound},
		{session.ErrInvalidRating, http.StatusBadRequest},
		{report.ErrInvalidFormat, http.StatusBadRequest},
		{settings.ErrInvalidSettings, http.StatusBadRequest},
		{staff.ErrWeakPassword, http.StatusBadRequest},
		{session.ErrSessionClosed, http.StatusConflict},
		{session.ErrVersionConflict, http.StatusConflict},
		{staff.ErrPositionInUse, http.StatusConflict},
		{staff.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func kioskRouter(sessions *fakeSessions) *gin.Engine {
	h := NewKioskHandler(sessions, &fakeStaff{}, &fakeSettings{current: models.DefaultSettings()}, nil)
	r := gin.New()
	r.POST("/sessions", h.InitSessionHandler)
	r.GET("/sessions/:id", h.GetSessionHandler)
	r.PUT("/sessions/:id/pharmacy-rating", h.UpdatePharmacyRatingHandler)
	r.POST("/sessions/:id/complete", h.CompleteSessionHandler)
	r.POST("/sync", h.SyncHandler)
	r.GET("/settings", h.GetSettingsHandler)
	return r
}

func TestKioskInitSession(t *testing.T) {
	sessions := &fakeSessions{
		InitFunc: func(ctx context.Context, deviceID string, timeout int) (*models.FeedbackSession, error) {
			if deviceID == "" {
				return nil, session.ErrMissingDeviceID
			}
			return &models.FeedbackSession{SessionID: "abc", DeviceID: deviceID, InactivityTimeout: timeout}, nil
		},
	}
	r := kioskRouter(sessions)

	w := do(r, http.MethodPost, "/sessions", map[string]interface{}{"deviceId": "kiosk-1", "inactivityTimeout": 30})
	require.Equal(t, http.StatusCreated, w.Code)
	var sess models.FeedbackSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "abc", sess.SessionID)
	assert.Equal(t, 30, sess.InactivityTimeout)

	w = do(r, http.MethodPost, "/sessions", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, session.ErrMissingDeviceID.Error(), errorOf(t, w))

	w = do(r, http.MethodPost, "/sessions", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKioskSessionErrors(t *testing.T) {
	sessions := &fakeSessions{
		RatingFunc: func(ctx context.Context, id string, rating int) (*models.FeedbackSession, error) {
			if rating < 1 || rating > 5 {
				return nil, session.ErrInvalidRating
			}
			return nil, errors.New("mongo down")
		},
	}
	r := kioskRouter(sessions)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"unknown session", http.MethodGet, "/sessions/nope", nil, http.StatusNotFound},
		{"invalid rating", http.MethodPut, "/sessions/abc/pharmacy-rating", map[string]int{"rating": 9}, http.StatusBadRequest},
		{"storage failure", http.MethodPut, "/sessions/abc/pharmacy-rating", map[string]int{"rating": 4}, http.StatusInternalServerError},
		{"closed session", http.MethodPost, "/sessions/abc/complete", nil, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(r, http.MethodPut, "/sessions/abc/pharmacy-rating", map[string]int{"rating": 4})
	assert.Equal(t, "Failed to update pharmacy rating", errorOf(t, w))
}

func TestKioskSync(t *testing.T) {
	var got session.SyncRequest
	sessions := &fakeSessions{
		SyncFunc: func(ctx context.Context, req session.SyncRequest) (*models.FeedbackSession, error) {
			got = req
			return &models.FeedbackSession{SessionID: "s1", DeviceID: req.DeviceID}, nil
		},
	}
	r := kioskRouter(sessions)

	w := do(r, http.MethodPost, "/sync", `{"action":"update","sessionId":"s1","deviceId":"kiosk-2","pharmacyRating":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.ActionUpdate, got.Action)
	require.NotNil(t, got.PharmacyRating)
	assert.Equal(t, 5, *got.PharmacyRating)
	assert.Nil(t, got.Suggestion)

	var body struct {
		Success bool                   `json:"success"`
		Session models.FeedbackSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "kiosk-2", body.Session.DeviceID)
}

func TestKioskSettingsHidesReportSettings(t *testing.T) {
	w := do(kioskRouter(&fakeSessions{}), http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "display")
	assert.Contains(t, body, "feedbackPage")
	assert.NotContains(t, body, "reports")
}

func TestStatsHandlersParseFrame(t *testing.T) {
	svc := &fakeStats{}
	h := NewStatsHandler(svc, nil)
	r := gin.New()
	r.GET("/satisfaction", h.SatisfactionRateHandler)
	r.GET("/completion", h.CompletionRateHandler)
	r.GET("/recent", h.RecentFeedbackHandler)

	w := do(r, http.MethodGet, "/satisfaction?frame=quarter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, stats.FrameQuarter, svc.lastFrame)
	var series models.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
	assert.Equal(t, []string{"a"}, series.Labels)

	w = do(r, http.MethodGet, "/completion?frame=bogus", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, stats.FrameMonth, svc.lastFrame)

	w = do(r, http.MethodGet, "/recent?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.lastLimit)

	w = do(r, http.MethodGet, "/recent?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSweepHandler(t *testing.T) {
	t.Run("inline without a queue", func(t *testing.T) {
		sessions := &fakeSessions{SweepResult: 3}
		h := NewSessionAdminHandler(sessions, nil, nil)
		r := gin.New()
		r.POST("/sweep", h.SweepHandler)

		w := do(r, http.MethodPost, "/sweep?olderThan=60", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"processed":3}`, w.Body.String())
		assert.Equal(t, 60, sessions.SweepMinutes)
	})

	t.Run("queued", func(t *testing.T) {
		enqueuer := &fakeEnqueuer{}
		h := NewSessionAdminHandler(&fakeSessions{}, enqueuer, nil)
		r := gin.New()
		r.POST("/sweep", h.SweepHandler)

		w := do(r, http.MethodPost, "/sweep", nil)
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"taskId":"task-sweep"}`, w.Body.String())
		assert.Equal(t, []int{0}, enqueuer.sweeps)
	})

	t.Run("queue failure", func(t *testing.T) {
		h := NewSessionAdminHandler(&fakeSessions{}, &fakeEnqueuer{err: errors.New("redis down")}, nil)
		r := gin.New()
		r.POST("/sweep", h.SweepHandler)

		w := do(r, http.MethodPost, "/sweep", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestListSessionsHandler(t *testing.T) {
	var got session.ListFilter
	sessions := &fakeSessions{
		ListFunc: func(ctx context.Context, filter session.ListFilter) (*session.SessionPage, error) {
			got = filter
			return &session.SessionPage{Sessions: []models.FeedbackSession{}, Page: filter.Page, Limit: filter.Limit}, nil
		},
	}
	h := NewSessionAdminHandler(sessions, nil, nil)
	r := gin.New()
	r.GET("/sessions", h.ListSessionsHandler)

	w := do(r, http.MethodGet, "/sessions?status=completed&deviceId=k1&from=2026-03-01&to=2026-04-01T00:00:00Z&withData=true&page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SessionCompleted, got.Status)
	assert.Equal(t, "k1", got.DeviceID)
	assert.True(t, got.WithData)
	assert.Equal(t, int64(2), got.Page)
	assert.Equal(t, int64(5), got.Limit)
	assert.Equal(t, 2026, got.From.Year())
	assert.Equal(t, 4, int(got.To.Month()))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/sessions?from=yesterday", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/sessions?page=one", nil).Code)
}

func TestReportHandlers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3"), 0o644))

	reports := &fakeReports{download: &models.Report{ID: "r1", Name: "summary.pdf", FilePath: path}}
	h := NewReportHandler(reports, nil, nil)
	r := gin.New()
	r.Use(asAdmin)
	r.POST("/reports", h.GenerateReportHandler)
	r.GET("/reports/:id/download", h.DownloadReportHandler)
	r.POST("/reports/monthly", h.MonthlyReportHandler)

	w := do(r, http.MethodPost, "/reports", map[string]string{"type": "feedback", "format": "PDF", "sentiment": "positive"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "admin-1", reports.generated.UserID)
	assert.Equal(t, report.SentimentPositive, reports.generated.Sentiment)

	w = do(r, http.MethodGet, "/reports/r1/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "summary.pdf")

	w = do(r, http.MethodPost, "/reports/monthly", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	reports.err = report.ErrReportFileMissing
	w = do(r, http.MethodGet, "/reports/r1/download", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	reports.err = report.ErrMonthlyReportDisabled
	w = do(r, http.MethodPost, "/reports/monthly", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMonthlyReportQueued(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	h := NewReportHandler(&fakeReports{}, enqueuer, nil)
	r := gin.New()
	r.Use(asAdmin)
	r.POST("/reports/monthly", h.MonthlyReportHandler)

	w := do(r, http.MethodPost, "/reports/monthly", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"admin-1"}, enqueuer.monthly)
}

func TestLoginHandler(t *testing.T) {
	svc := &fakeStaff{auth: &staff.AuthResponse{ID: "admin-1", Token: "jwt"}}
	h := NewStaffHandler(svc, nil)
	r := gin.New()
	r.POST("/login", h.LoginHandler)

	w := do(r, http.MethodPost, "/login", map[string]string{"email": "a@b.c", "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp staff.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jwt", resp.Token)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/login", map[string]string{"email": "a@b.c"}).Code)

	svc.err = staff.ErrInvalidCredentials
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/login", map[string]string{"email": "a@b.c", "password": "x"}).Code)
}

func TestDeletePositionInUse(t *testing.T) {
	h := NewStaffHandler(&fakeStaff{err: staff.ErrPositionInUse}, nil)
	r := gin.New()
	r.DELETE("/positions/:id", h.DeletePositionHandler)

	w := do(r, http.MethodDelete, "/positions/p1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, staff.ErrPositionInUse.Error(), errorOf(t, w))
}

func TestUpdateSettingsHandler(t *testing.T) {
	svc := &fakeSettings{current: models.DefaultSettings()}
	h := NewSettingsHandler(svc, nil)
	r := gin.New()
	r.PUT("/settings", h.UpdateSettingsHandler)

	w := do(r, http.MethodPut, "/settings", `{"display":{"pharmacyName":"Central"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"display":{"pharmacyName":"Central"}}`, string(svc.patch))

	svc.err = fmt.Errorf("%w: kioskResetSeconds too small", settings.ErrInvalidSettings)
	w = do(r, http.MethodPut, "/settings", `{"display":{"kioskResetSeconds":1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheckWithoutDatabase(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	r := gin.New()
	r.GET("/health", h.HealthCheckHandler)

	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"unavailable"`)
}
