package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxSaveAttempts bounds the load-mutate-save retries on version conflicts.
const maxSaveAttempts = 3

// InitializeSession creates a new active session for a kiosk.
func (s *DefaultSessionService) InitializeSession(ctx context.Context, deviceID string, inactivityTimeout int) (*models.FeedbackSession, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, ErrMissingDeviceID
	}
	if inactivityTimeout <= 0 {
		inactivityTimeout = s.defaultTimeout(ctx)
	}

	now := s.now()
	sess := &models.FeedbackSession{
		ID:                primitive.NewObjectID(),
		DeviceID:          deviceID,
		EmployeeRatings:   []models.EmployeeRating{},
		Status:            models.SessionActive,
		StartedAt:         now,
		LastActiveAt:      now,
		InactivityTimeout: inactivityTimeout,
	}
	sess.SessionID = sess.ID.Hex()

	if err := s.Repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to initialize session for device %s: %w", deviceID, err)
	}
	s.logger().Debug("Session initialized",
		zap.String("sessionId", sess.SessionID),
		zap.String("deviceId", deviceID),
	)
	return sess, nil
}

// GetSessionByID resolves id against the external sessionId first and, when id
// has the shape of a storage identifier, against _id second.
func (s *DefaultSessionService) GetSessionByID(ctx context.Context, id string) (*models.FeedbackSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrSessionNotFound
	}

	sess, err := s.Repo.GetBySessionID(ctx, id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, sessionRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up session %s: %w", id, err)
	}

	oid, perr := primitive.ObjectIDFromHex(id)
	if perr != nil {
		return nil, ErrSessionNotFound
	}
	sess, err = s.Repo.GetByObjectID(ctx, oid)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session %s: %w", id, err)
	}
	return sess, nil
}

func (s *DefaultSessionService) UpdatePharmacyRating(ctx context.Context, id string, rating int) (*models.FeedbackSession, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}
	return s.mutate(ctx, id, func(sess *models.FeedbackSession) error {
		r := rating
		sess.PharmacyRating = &r
		return nil
	})
}

// UpdateEmployeeRatings replaces the session's employee ratings wholesale.
func (s *DefaultSessionService) UpdateEmployeeRatings(ctx context.Context, id string, ratings []models.EmployeeRating) (*models.FeedbackSession, error) {
	if err := validateEmployeeRatings(ratings); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(sess *models.FeedbackSession) error {
		sess.EmployeeRatings = copyRatings(ratings)
		return nil
	})
}

func (s *DefaultSessionService) UpdateClientData(ctx context.Context, id string, data models.ClientData) (*models.FeedbackSession, error) {
	return s.mutate(ctx, id, func(sess *models.FeedbackSession) error {
		d := normalizeClientData(data)
		sess.ClientData = &d
		return nil
	})
}

func (s *DefaultSessionService) UpdateSuggestion(ctx context.Context, id string, suggestion string) (*models.FeedbackSession, error) {
	return s.mutate(ctx, id, func(sess *models.FeedbackSession) error {
		text := strings.TrimSpace(suggestion)
		if text == "" {
			sess.Suggestion = nil
			return nil
		}
		sess.Suggestion = &text
		return nil
	})
}

// CompleteSession marks the session completed. Completing an already completed
// session is a no-op.
func (s *DefaultSessionService) CompleteSession(ctx context.Context, id string) (*models.FeedbackSession, error) {
	return s.mutate(ctx, id, func(sess *models.FeedbackSession) error {
		return s.markCompleted(sess)
	})
}

func (s *DefaultSessionService) markCompleted(sess *models.FeedbackSession) error {
	switch sess.Status {
	case models.SessionCompleted:
		return nil
	case models.SessionActive:
		now := s.now()
		sess.Status = models.SessionCompleted
		sess.Completed = true
		sess.CompletedAt = &now
		return nil
	default:
		return fmt.Errorf("%w: session is %s", ErrSessionClosed, sess.Status)
	}
}

// mutate runs one load-mutate-save cycle, retrying when another request saved
// the same session in between.
func (s *DefaultSessionService) mutate(ctx context.Context, id string, apply func(*models.FeedbackSession) error) (*models.FeedbackSession, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		sess, err := s.GetSessionByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := apply(sess); err != nil {
			return nil, err
		}
		sess.Touch(s.now())

		err = s.Repo.Save(ctx, sess)
		switch {
		case err == nil:
			return sess, nil
		case errors.Is(err, sessionRepo.ErrVersionConflict):
			s.logger().Debug("Session version conflict, retrying",
				zap.String("sessionId", sess.SessionID),
				zap.Int("attempt", attempt),
			)
		case errors.Is(err, sessionRepo.ErrNotFound):
			return nil, ErrSessionNotFound
		default:
			return nil, fmt.Errorf("failed to save session %s: %w", id, err)
		}
	}
	return nil, ErrVersionConflict
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

func validateEmployeeRatings(ratings []models.EmployeeRating) error {
	for _, r := range ratings {
		if strings.TrimSpace(r.EmployeeID) == "" {
			return ErrMissingEmployeeID
		}
		if !validRating(r.Rating) {
			return ErrInvalidRating
		}
	}
	return nil
}

func copyRatings(ratings []models.EmployeeRating) []models.EmployeeRating {
	out := make([]models.EmployeeRating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, models.EmployeeRating{
			EmployeeID: strings.TrimSpace(r.EmployeeID),
			Rating:     r.Rating,
			Comment:    strings.TrimSpace(r.Comment),
		})
	}
	return out
}

func normalizeClientData(d models.ClientData) models.ClientData {
	return models.ClientData{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Email:     strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:     strings.TrimSpace(d.Phone),
		Consent:   d.Consent,
	}
}
