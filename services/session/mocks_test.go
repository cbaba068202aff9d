package session

import (
	"context"
	"sort"
	"sync"
	"time"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeSessionRepo is a map-backed SessionRepository that stores copies, so the
// service under test cannot mutate stored state without calling Save.
type fakeSessionRepo struct {
	mu       sync.RWMutex
	sessions map[primitive.ObjectID]models.FeedbackSession

	GetBySessionIDFunc  func(ctx context.Context, sessionID string) (*models.FeedbackSession, error)
	SaveFunc            func(ctx context.Context, s *models.FeedbackSession) error
	DeleteFunc          func(ctx context.Context, id primitive.ObjectID) error
	DeleteIfVersionFunc func(ctx context.Context, id primitive.ObjectID, version int) error
	FindStaleFunc       func(ctx context.Context, now time.Time, threshold time.Duration) ([]models.FeedbackSession, error)
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]models.FeedbackSession)}
}

func cloneSession(s models.FeedbackSession) models.FeedbackSession {
	out := s
	if s.PharmacyRating != nil {
		r := *s.PharmacyRating
		out.PharmacyRating = &r
	}
	if s.Suggestion != nil {
		t := *s.Suggestion
		out.Suggestion = &t
	}
	if s.ClientData != nil {
		d := *s.ClientData
		out.ClientData = &d
	}
	if s.CompletedAt != nil {
		c := *s.CompletedAt
		out.CompletedAt = &c
	}
	out.EmployeeRatings = append([]models.EmployeeRating{}, s.EmployeeRatings...)
	return out
}

// put stores a session directly, bypassing the service.
func (f *fakeSessionRepo) put(s models.FeedbackSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.SessionID == "" {
		s.SessionID = s.ID.Hex()
	}
	f.sessions[s.ID] = cloneSession(s)
}

func (f *fakeSessionRepo) get(id primitive.ObjectID) (models.FeedbackSession, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.sessions[id]
	return cloneSession(s), ok
}

func (f *fakeSessionRepo) count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *models.FeedbackSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.SessionID = s.ID.Hex()
	f.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (f *fakeSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.FeedbackSession, error) {
	if f.GetBySessionIDFunc != nil {
		return f.GetBySessionIDFunc(ctx, sessionID)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sessions {
		if s.SessionID == sessionID {
			c := cloneSession(s)
			return &c, nil
		}
	}
	return nil, sessionRepo.ErrNotFound
}

func (f *fakeSessionRepo) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.FeedbackSession, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	c := cloneSession(s)
	return &c, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, s *models.FeedbackSession) error {
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, s)
	}
	return f.save(s)
}

func (f *fakeSessionRepo) save(s *models.FeedbackSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[s.ID]
	if !ok {
		return sessionRepo.ErrNotFound
	}
	if stored.Version != s.Version {
		return sessionRepo.ErrVersionConflict
	}
	s.Version++
	f.sessions[s.ID] = cloneSession(*s)
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return f.delete(id)
}

func (f *fakeSessionRepo) delete(id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return sessionRepo.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteIfVersion(ctx context.Context, id primitive.ObjectID, version int) error {
	if f.DeleteIfVersionFunc != nil {
		return f.DeleteIfVersionFunc(ctx, id, version)
	}
	return f.deleteIfVersion(id, version)
}

func (f *fakeSessionRepo) deleteIfVersion(id primitive.ObjectID, version int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[id]
	if !ok {
		return sessionRepo.ErrNotFound
	}
	if stored.Version != version || stored.Status != models.SessionActive {
		return sessionRepo.ErrVersionConflict
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) FindStale(ctx context.Context, now time.Time, threshold time.Duration) ([]models.FeedbackSession, error) {
	if f.FindStaleFunc != nil {
		return f.FindStaleFunc(ctx, now, threshold)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []models.FeedbackSession
	for _, s := range f.sessions {
		if s.IsStale(now, threshold) {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Find(ctx context.Context, q sessionRepo.Query) ([]models.FeedbackSession, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []models.FeedbackSession
	for _, s := range f.sessions {
		s := s
		if q.Matches(&s) {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActiveAt.After(out[j].LastActiveAt) })
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeSessionRepo) List(ctx context.Context, q sessionRepo.Query, page, limit int64) ([]models.FeedbackSession, int64, error) {
	all, _ := f.Find(ctx, sessionRepo.Query{
		From: q.From, To: q.To, Statuses: q.Statuses, DeviceID: q.DeviceID, WithData: q.WithData,
	})
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= total {
		return []models.FeedbackSession{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeSessionRepo) EarliestActivity(ctx context.Context) (*time.Time, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var earliest *time.Time
	for _, s := range f.sessions {
		t := s.LastActiveAt
		if earliest == nil || t.Before(*earliest) {
			earliest = &t
		}
	}
	return earliest, nil
}

func (f *fakeSessionRepo) EnsureIndexes(ctx context.Context) error { return nil }

// testClock is a settable clock for the service under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService() (*DefaultSessionService, *fakeSessionRepo, *testClock) {
	repo := newFakeSessionRepo()
	clock := newTestClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewSessionService(repo, nil)
	svc.Now = clock.Now
	return svc, repo, clock
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// fakeSettings serves session settings or a fixed error.
type fakeSettings struct {
	sessions models.SessionSettings
	err      error
}

func (f *fakeSettings) Get(ctx context.Context) (*models.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := models.DefaultSettings()
	st.Sessions = f.sessions
	return &st, nil
}
