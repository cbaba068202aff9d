package handlers

import (
	"context"

	"pharmakiosk/models"
	"pharmakiosk/services/report"
	"pharmakiosk/services/session"
	"pharmakiosk/services/staff"
	"pharmakiosk/services/stats"
)

// fakeSessions implements session.SessionService; unset funcs return ErrSessionNotFound.
type fakeSessions struct {
	InitFunc     func(ctx context.Context, deviceID string, timeout int) (*models.FeedbackSession, error)
	GetFunc      func(ctx context.Context, id string) (*models.FeedbackSession, error)
	RatingFunc   func(ctx context.Context, id string, rating int) (*models.FeedbackSession, error)
	SyncFunc     func(ctx context.Context, req session.SyncRequest) (*models.FeedbackSession, error)
	ListFunc     func(ctx context.Context, filter session.ListFilter) (*session.SessionPage, error)
	SweepResult  int
	SweepMinutes int
}

func (f *fakeSessions) InitializeSession(ctx context.Context, deviceID string, timeout int) (*models.FeedbackSession, error) {
	if f.InitFunc != nil {
		return f.InitFunc(ctx, deviceID, timeout)
	}
	return nil, session.ErrMissingDeviceID
}

func (f *fakeSessions) GetSessionByID(ctx context.Context, id string) (*models.FeedbackSession, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessions) UpdatePharmacyRating(ctx context.Context, id string, rating int) (*models.FeedbackSession, error) {
	if f.RatingFunc != nil {
		return f.RatingFunc(ctx, id, rating)
	}
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessions) UpdateEmployeeRatings(ctx context.Context, id string, ratings []models.EmployeeRating) (*models.FeedbackSession, error) {
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessions) UpdateClientData(ctx context.Context, id string, data models.ClientData) (*models.FeedbackSession, error) {
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessions) UpdateSuggestion(ctx context.Context, id string, suggestion string) (*models.FeedbackSession, error) {
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessions) CompleteSession(ctx context.Context, id string) (*models.FeedbackSession, error) {
	return nil, session.ErrSessionClosed
}

func (f *fakeSessions) SyncSession(ctx context.Context, req session.SyncRequest) (*models.FeedbackSession, error) {
	if f.SyncFunc != nil {
		return f.SyncFunc(ctx, req)
	}
	return nil, session.ErrUnknownAction
}

func (f *fakeSessions) ProcessAbandonedSessions(ctx context.Context, olderThanMinutes int) int {
	f.SweepMinutes = olderThanMinutes
	return f.SweepResult
}

func (f *fakeSessions) ListSessions(ctx context.Context, filter session.ListFilter) (*session.SessionPage, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return &session.SessionPage{Sessions: []models.FeedbackSession{}}, nil
}

func (f *fakeSessions) DeleteSession(ctx context.Context, id string) error {
	return session.ErrSessionNotFound
}

// fakeStats returns fixed values and records the last frame it was asked for.
type fakeStats struct {
	lastFrame stats.TimeFrame
	lastLimit int
}

func (f *fakeStats) series(frame stats.TimeFrame) models.Series {
	f.lastFrame = frame
	return models.Series{Labels: []string{"a"}, Data: []float64{1}}
}

func (f *fakeStats) SatisfactionRate(ctx context.Context, frame stats.TimeFrame) models.Series {
	return f.series(frame)
}

func (f *fakeStats) AverageRating(ctx context.Context, frame stats.TimeFrame) models.Series {
	return f.series(frame)
}

func (f *fakeStats) StarRatingDistribution(ctx context.Context, frame stats.TimeFrame) models.Series {
	return f.series(frame)
}

func (f *fakeStats) VisitorCount(ctx context.Context, frame stats.TimeFrame) models.Series {
	return f.series(frame)
}

func (f *fakeStats) ParticipationRate(ctx context.Context, frame stats.TimeFrame) models.KPI {
	f.lastFrame = frame
	return models.KPI{Current: 50}
}

func (f *fakeStats) EmployeeRatingStats(ctx context.Context, frame stats.TimeFrame) models.EmployeeStats {
	f.lastFrame = frame
	return models.EmployeeStats{}
}

func (f *fakeStats) CompletionRate(ctx context.Context, frame stats.TimeFrame) models.KPI {
	f.lastFrame = frame
	return models.KPI{Current: 75}
}

func (f *fakeStats) FeedbackByTimeOfDay(ctx context.Context, frame stats.TimeFrame) models.Series {
	return f.series(frame)
}

func (f *fakeStats) DashboardKPIs(ctx context.Context, frame stats.TimeFrame) models.DashboardKPIs {
	f.lastFrame = frame
	return models.DashboardKPIs{}
}

func (f *fakeStats) RecentFeedback(ctx context.Context, limit int) []models.FeedbackSession {
	f.lastLimit = limit
	return []models.FeedbackSession{}
}

type fakeReports struct {
	report.ReportService // unused methods panic

	generated report.GenerateRequest
	download  *models.Report
	err       error
}

func (f *fakeReports) GenerateReport(ctx context.Context, req report.GenerateRequest) (*models.Report, error) {
	f.generated = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Report{ID: "r1", Type: req.Type, Format: req.Format, GeneratedBy: req.UserID}, nil
}

func (f *fakeReports) DownloadReport(ctx context.Context, id string) (*models.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.download, nil
}

func (f *fakeReports) GenerateMonthlyReport(ctx context.Context) (*models.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Report{ID: "monthly", Type: models.ReportSummary}, nil
}

type fakeStaff struct {
	staff.StaffService // unused methods panic

	auth *staff.AuthResponse
	err  error
}

func (f *fakeStaff) AuthenticateAdmin(ctx context.Context, email, password string) (*staff.AuthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.auth, nil
}

func (f *fakeStaff) DeletePosition(ctx context.Context, id string) error {
	return f.err
}

type fakeSettings struct {
	current models.Settings
	patch   []byte
	err     error
}

func (f *fakeSettings) Get(ctx context.Context) (*models.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.current
	return &s, nil
}

func (f *fakeSettings) Update(ctx context.Context, patch []byte) (*models.Settings, error) {
	f.patch = patch
	if f.err != nil {
		return nil, f.err
	}
	s := f.current
	return &s, nil
}

type fakeEnqueuer struct {
	sweeps  []int
	monthly []string
	err     error
}

func (f *fakeEnqueuer) EnqueueSweep(ctx context.Context, olderThanMinutes int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sweeps = append(f.sweeps, olderThanMinutes)
	return "task-sweep", nil
}

func (f *fakeEnqueuer) EnqueueMonthlyReport(ctx context.Context, requestedBy string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.monthly = append(f.monthly, requestedBy)
	return "task-monthly", nil
}
