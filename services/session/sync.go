package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// unknownDevice stands in for a kiosk that resent state without its identifier.
const unknownDevice = "unknown-device"

// SyncSession merges the kiosk's view into the stored session, creating it when
// it does not exist. Only fields present in req are written, so resending a
// smaller payload never clears earlier values.
func (s *DefaultSessionService) SyncSession(ctx context.Context, req SyncRequest) (*models.FeedbackSession, error) {
	switch req.Action {
	case "", ActionCreateSession, ActionClientData, ActionComplete, ActionUpdate:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if err := validateSync(req); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.SessionID) != "" {
		sess, err := s.mutate(ctx, req.SessionID, func(sess *models.FeedbackSession) error {
			return s.applySync(sess, req)
		})
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}
	return s.createFromSync(ctx, req)
}

func (s *DefaultSessionService) applySync(sess *models.FeedbackSession, req SyncRequest) error {
	if req.DeviceID != "" && sess.DeviceID == "" {
		sess.DeviceID = req.DeviceID
	}
	if req.PharmacyRating != nil {
		r := *req.PharmacyRating
		sess.PharmacyRating = &r
	}
	if req.EmployeeRatings != nil {
		sess.EmployeeRatings = copyRatings(*req.EmployeeRatings)
	}
	if req.ClientData != nil {
		d := normalizeClientData(*req.ClientData)
		sess.ClientData = &d
	}
	if req.Suggestion != nil {
		text := strings.TrimSpace(*req.Suggestion)
		if text == "" {
			sess.Suggestion = nil
		} else {
			sess.Suggestion = &text
		}
	}
	if req.InactivityTimeout != nil && *req.InactivityTimeout > 0 {
		sess.InactivityTimeout = *req.InactivityTimeout
	}
	if wantsCompletion(req) {
		return s.markCompleted(sess)
	}
	return nil
}

func (s *DefaultSessionService) createFromSync(ctx context.Context, req SyncRequest) (*models.FeedbackSession, error) {
	now := s.now()
	sess := &models.FeedbackSession{
		EmployeeRatings:   []models.EmployeeRating{},
		Status:            models.SessionActive,
		StartedAt:         now,
		LastActiveAt:      now,
		InactivityTimeout: s.defaultTimeout(ctx),
	}

	// Reuse the kiosk's identifier when it is a storage id so a resend after a
	// lost response lands on the same record.
	if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.SessionID)); err == nil {
		sess.ID = oid
	} else {
		sess.ID = primitive.NewObjectID()
	}
	sess.SessionID = sess.ID.Hex()

	sess.DeviceID = strings.TrimSpace(req.DeviceID)
	if sess.DeviceID == "" {
		sess.DeviceID = unknownDevice
	}
	if err := s.applySync(sess, req); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session from sync: %w", err)
	}
	s.logger().Info("Session created from sync",
		zap.String("sessionId", sess.SessionID),
		zap.String("deviceId", sess.DeviceID),
		zap.String("action", req.Action),
	)
	return sess, nil
}

func wantsCompletion(req SyncRequest) bool {
	return req.Action == ActionComplete || (req.Completed != nil && *req.Completed)
}

func validateSync(req SyncRequest) error {
	if req.PharmacyRating != nil && !validRating(*req.PharmacyRating) {
		return ErrInvalidRating
	}
	if req.EmployeeRatings != nil {
		return validateEmployeeRatings(*req.EmployeeRatings)
	}
	return nil
}
