package report

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	reportRepo "pharmakiosk/database/repository/report"
	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*models.Report

	CreateFunc func(ctx context.Context, report *models.Report) error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*models.Report)}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, report)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	cp := *report
	f.reports[report.ID] = &cp
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return nil, reportRepo.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) List(ctx context.Context, reportType models.ReportType, page, limit int64) ([]models.Report, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Report
	for _, r := range f.reports {
		if reportType == "" || r.Type == reportType {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeReportRepo) IncrementDownloads(ctx context.Context, id string) (*models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return nil, reportRepo.ErrNotFound
	}
	r.DownloadCount++
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reports[id]; !ok {
		return reportRepo.ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeSessions struct {
	sessions []models.FeedbackSession
	err      error
}

func (f *fakeSessions) Find(ctx context.Context, q sessionRepo.Query) ([]models.FeedbackSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.FeedbackSession
	for i := range f.sessions {
		if q.Matches(&f.sessions[i]) {
			out = append(out, f.sessions[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActiveAt.After(out[j].LastActiveAt) })
	return out, nil
}

type fakeDirectory struct {
	employees []models.EmployeeView
	err       error
}

func (f *fakeDirectory) ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeView, error) {
	return f.employees, f.err
}

type fakeSettings struct {
	settings models.Settings
	err      error
}

func (f *fakeSettings) Get(ctx context.Context) (*models.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.settings
	return &s, nil
}

type fakeArchive struct {
	mu        sync.Mutex
	uploaded  map[string]string
	deleted   []string
	uploadErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{uploaded: make(map[string]string)}
}

func (f *fakeArchive) Upload(ctx context.Context, localFilePath, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	id := folder + "/" + uuid.New().String()
	f.uploaded[id] = localFilePath
	return id, nil
}

func (f *fakeArchive) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.uploaded[publicID]; !ok {
		return errors.New("not found")
	}
	delete(f.uploaded, publicID)
	f.deleted = append(f.deleted, publicID)
	return nil
}

// fixedNow is 15 April 2026, 10:30 UTC.
var fixedNow = time.Date(2026, 4, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	svc      *DefaultReportService
	repo     *fakeReportRepo
	sessions *fakeSessions
	settings *fakeSettings
	archive  *fakeArchive
}

func newTestEnv(dir string, sessions ...models.FeedbackSession) *testEnv {
	env := &testEnv{
		repo:     newFakeReportRepo(),
		sessions: &fakeSessions{sessions: sessions},
		settings: &fakeSettings{settings: models.DefaultSettings()},
		archive:  newFakeArchive(),
	}
	directory := &fakeDirectory{employees: []models.EmployeeView{
		{User: models.User{ID: "e1", FirstName: "Alice", LastName: "Martin", Role: models.RoleEmployee}, PositionName: "Pharmacist"},
		{User: models.User{ID: "e2", FirstName: "Bruno", LastName: "Petit", Role: models.RoleEmployee}, PositionName: "Assistant"},
	}}
	env.svc = NewReportService(env.repo, env.sessions, directory, env.settings, env.archive, dir, time.UTC, nil)
	env.svc.Now = func() time.Time { return fixedNow }
	return env
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func session(at time.Time, device string, rating int) models.FeedbackSession {
	s := models.FeedbackSession{
		ID:                primitive.NewObjectID(),
		DeviceID:          device,
		Status:            models.SessionCompleted,
		Completed:         true,
		StartedAt:         at,
		LastActiveAt:      at,
		InactivityTimeout: models.DefaultInactivityTimeout,
		EmployeeRatings:   []models.EmployeeRating{},
	}
	s.SessionID = s.ID.Hex()
	if rating > 0 {
		s.PharmacyRating = intPtr(rating)
	}
	return s
}
