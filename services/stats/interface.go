package stats

import (
	"context"
	"time"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// StatsService turns stored sessions into dashboard series and KPI cards.
// None of its methods fail: on a storage error they log and return a zeroed
// result with the frame's full label set.
type StatsService interface {
	SatisfactionRate(ctx context.Context, frame TimeFrame) models.Series
	AverageRating(ctx context.Context, frame TimeFrame) models.Series
	StarRatingDistribution(ctx context.Context, frame TimeFrame) models.Series
	VisitorCount(ctx context.Context, frame TimeFrame) models.Series
	ParticipationRate(ctx context.Context, frame TimeFrame) models.KPI
	EmployeeRatingStats(ctx context.Context, frame TimeFrame) models.EmployeeStats
	CompletionRate(ctx context.Context, frame TimeFrame) models.KPI
	FeedbackByTimeOfDay(ctx context.Context, frame TimeFrame) models.Series
	DashboardKPIs(ctx context.Context, frame TimeFrame) models.DashboardKPIs
	RecentFeedback(ctx context.Context, limit int) []models.FeedbackSession
}

// SessionReader is the read side of the session store used for aggregation.
type SessionReader interface {
	Find(ctx context.Context, q sessionRepo.Query) ([]models.FeedbackSession, error)
	EarliestActivity(ctx context.Context) (*time.Time, error)
}

// Directory resolves employee ids to names and positions.
type Directory interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeView, error)
}

type DefaultStatsService struct {
	Sessions  SessionReader
	Directory Directory
	Cache     *redis.Client // nil disables caching
	CacheTTL  time.Duration
	Location  *time.Location
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewStatsService(sessions SessionReader, directory Directory, cache *redis.Client, cacheTTL time.Duration, loc *time.Location, logger *zap.Logger) *DefaultStatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DefaultStatsService{
		Sessions:  sessions,
		Directory: directory,
		Cache:     cache,
		CacheTTL:  cacheTTL,
		Location:  loc,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *DefaultStatsService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultStatsService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultStatsService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// windows resolves frame against the service clock.
func (s *DefaultStatsService) windows(frame TimeFrame) (Window, Window, bool) {
	return windowsFor(frame, s.now(), s.location())
}

// bucketsOf lays out the buckets of w, looking up the first session year for
// unbounded windows.
func (s *DefaultStatsService) bucketsOf(ctx context.Context, w Window) buckets {
	var earliest *time.Time
	if w.Start.IsZero() {
		var err error
		earliest, err = s.Sessions.EarliestActivity(ctx)
		if err != nil {
			s.logger().Warn("Failed to fetch earliest session activity", zap.Error(err))
			earliest = nil
		}
	}
	return bucketsFor(w, s.location(), earliest)
}

// load fetches the sessions of w selected by q.
func (s *DefaultStatsService) load(ctx context.Context, op string, w Window, q sessionRepo.Query) ([]models.FeedbackSession, bool) {
	q.From = w.Start
	q.To = w.End
	sessions, err := s.Sessions.Find(ctx, q)
	if err != nil {
		s.logger().Error("Failed to load sessions for statistics",
			zap.String("op", op),
			zap.Time("from", w.Start),
			zap.Time("to", w.End),
			zap.Error(err),
		)
		return nil, false
	}
	return sessions, true
}
