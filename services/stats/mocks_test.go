package stats

import (
	"context"
	"sort"
	"time"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSessionReader struct {
	sessions []models.FeedbackSession
	findErr  error
	calls    int
}

func (f *fakeSessionReader) Find(ctx context.Context, q sessionRepo.Query) ([]models.FeedbackSession, error) {
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.FeedbackSession
	for i := range f.sessions {
		if q.Matches(&f.sessions[i]) {
			out = append(out, f.sessions[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActiveAt.After(out[j].LastActiveAt) })
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeSessionReader) EarliestActivity(ctx context.Context) (*time.Time, error) {
	var earliest *time.Time
	for _, s := range f.sessions {
		t := s.LastActiveAt
		if earliest == nil || t.Before(*earliest) {
			earliest = &t
		}
	}
	return earliest, nil
}

type fakeDirectory struct {
	employees []models.EmployeeView
	err       error
}

func (f *fakeDirectory) ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeView, error) {
	return f.employees, f.err
}

// fixedNow is Tuesday 10 March 2026, 09:00 UTC.
var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestStats(sessions ...models.FeedbackSession) (*DefaultStatsService, *fakeSessionReader) {
	reader := &fakeSessionReader{sessions: sessions}
	svc := NewStatsService(reader, &fakeDirectory{}, nil, 0, time.UTC, nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc, reader
}

// sessionAt builds a session last active at t. rating 0 means unrated.
func sessionAt(t time.Time, device string, rating int) models.FeedbackSession {
	s := models.FeedbackSession{
		ID:                primitive.NewObjectID(),
		DeviceID:          device,
		Status:            models.SessionActive,
		StartedAt:         t,
		LastActiveAt:      t,
		InactivityTimeout: models.DefaultInactivityTimeout,
		EmployeeRatings:   []models.EmployeeRating{},
	}
	s.SessionID = s.ID.Hex()
	if rating > 0 {
		r := rating
		s.PharmacyRating = &r
	}
	return s
}

func completed(s models.FeedbackSession) models.FeedbackSession {
	s.Status = models.SessionCompleted
	s.Completed = true
	at := s.LastActiveAt
	s.CompletedAt = &at
	return s
}

func withEmployeeRatings(s models.FeedbackSession, ratings ...models.EmployeeRating) models.FeedbackSession {
	s.EmployeeRatings = ratings
	return s
}

func strPtr(v string) *string { return &v }
