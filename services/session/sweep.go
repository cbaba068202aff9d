package session

import (
	"context"
	"errors"
	"time"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

// DefaultSweepMinutes is the idle threshold used when nothing else sets one.
const DefaultSweepMinutes = 120

// ProcessAbandonedSessions archives stale active sessions that hold feedback as
// abandoned and deletes the empty ones. It returns how many sessions were
// handled; failures on individual sessions are logged and skipped.
func (s *DefaultSessionService) ProcessAbandonedSessions(ctx context.Context, olderThanMinutes int) int {
	olderThanMinutes = s.sweepThreshold(ctx, olderThanMinutes)
	logger := s.logger()
	now := s.now()
	threshold := time.Duration(olderThanMinutes) * time.Minute

	candidates, err := s.Repo.FindStale(ctx, now, threshold)
	if err != nil {
		logger.Error("Failed to fetch stale sessions", zap.Error(err))
		return 0
	}

	var archived, deleted int
	for i := range candidates {
		sess := &candidates[i]
		if !sess.IsStale(now, threshold) {
			continue
		}

		if sess.HasValidData() {
			sess.Status = models.SessionAbandoned
			sess.Processed = true
			if err := s.Repo.Save(ctx, sess); err != nil {
				// A conflict means the kiosk touched it again; leave it active.
				logger.Warn("Failed to archive abandoned session",
					zap.String("sessionId", sess.SessionID),
					zap.Error(err),
				)
				continue
			}
			archived++
			continue
		}

		if err := s.Repo.DeleteIfVersion(ctx, sess.ID, sess.Version); err != nil {
			if errors.Is(err, sessionRepo.ErrVersionConflict) || errors.Is(err, sessionRepo.ErrNotFound) {
				logger.Info("Empty session changed during sweep, skipping",
					zap.String("sessionId", sess.SessionID),
					zap.Error(err),
				)
				continue
			}
			logger.Warn("Failed to delete empty session",
				zap.String("sessionId", sess.SessionID),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}

	logger.Info("Abandoned session sweep finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("archived", archived),
		zap.Int("deleted", deleted),
	)
	return archived + deleted
}
