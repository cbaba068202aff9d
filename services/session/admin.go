package session

import (
	"context"
	"errors"
	"fmt"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

// ListSessions returns one page of sessions for the admin feedback table.
func (s *DefaultSessionService) ListSessions(ctx context.Context, filter ListFilter) (*SessionPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 20
	}

	q := sessionRepo.Query{
		From:     filter.From,
		To:       filter.To,
		DeviceID: filter.DeviceID,
		WithData: filter.WithData,
	}
	if filter.Status != "" {
		q.Statuses = []models.SessionStatus{filter.Status}
	}

	sessions, total, err := s.Repo.List(ctx, q, filter.Page, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []models.FeedbackSession{}
	}
	return &SessionPage{Sessions: sessions, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *DefaultSessionService) DeleteSession(ctx context.Context, id string) error {
	sess, err := s.GetSessionByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, sess.ID); err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	s.logger().Info("Session deleted", zap.String("sessionId", sess.SessionID))
	return nil
}
