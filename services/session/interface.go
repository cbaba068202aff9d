package session

import (
	"context"
	"time"

	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

// SessionService owns the kiosk feedback session lifecycle.
type SessionService interface {
	InitializeSession(ctx context.Context, deviceID string, inactivityTimeout int) (*models.FeedbackSession, error)
	GetSessionByID(ctx context.Context, id string) (*models.FeedbackSession, error)

	UpdatePharmacyRating(ctx context.Context, id string, rating int) (*models.FeedbackSession, error)
	UpdateEmployeeRatings(ctx context.Context, id string, ratings []models.EmployeeRating) (*models.FeedbackSession, error)
	UpdateClientData(ctx context.Context, id string, data models.ClientData) (*models.FeedbackSession, error)
	UpdateSuggestion(ctx context.Context, id string, suggestion string) (*models.FeedbackSession, error)
	CompleteSession(ctx context.Context, id string) (*models.FeedbackSession, error)

	SyncSession(ctx context.Context, req SyncRequest) (*models.FeedbackSession, error)
	ProcessAbandonedSessions(ctx context.Context, olderThanMinutes int) int

	ListSessions(ctx context.Context, filter ListFilter) (*SessionPage, error)
	DeleteSession(ctx context.Context, id string) error
}

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Repo     sessionRepo.SessionRepository
	Settings SettingsReader // optional
	Logger   *zap.Logger
	Now      func() time.Time

	// SweepAfterMinutes applies when neither the caller nor the settings set a
	// sweep threshold.
	SweepAfterMinutes int
}

// NewSessionService wires a DefaultSessionService with a real clock.
func NewSessionService(repo sessionRepo.SessionRepository, logger *zap.Logger) *DefaultSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSessionService{Repo: repo, Logger: logger, Now: time.Now}
}

func (s *DefaultSessionService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultSessionService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// SyncRequest is the kiosk's (possibly partial) view of a session. Nil fields are
// left untouched on an existing session.
type SyncRequest struct {
	Action            string                   `json:"action"`
	SessionID         string                   `json:"sessionId"`
	DeviceID          string                   `json:"deviceId"`
	PharmacyRating    *int                     `json:"pharmacyRating,omitempty"`
	EmployeeRatings   *[]models.EmployeeRating `json:"employeeRatings,omitempty"`
	ClientData        *models.ClientData       `json:"clientData,omitempty"`
	Suggestion        *string                  `json:"suggestion,omitempty"`
	InactivityTimeout *int                     `json:"inactivityTimeout,omitempty"`
	Completed         *bool                    `json:"completed,omitempty"`
}

// Sync actions sent by the kiosk.
const (
	ActionCreateSession = "create-session"
	ActionClientData    = "client-data"
	ActionComplete      = "complete"
	ActionUpdate        = "update"
)

// ListFilter selects sessions for the admin feedback table.
type ListFilter struct {
	Status   models.SessionStatus
	DeviceID string
	From     time.Time
	To       time.Time
	WithData bool
	Page     int64
	Limit    int64
}

type SessionPage struct {
	Sessions []models.FeedbackSession `json:"sessions"`
	Total    int64                    `json:"total"`
	Page     int64                    `json:"page"`
	Limit    int64                    `json:"limit"`
}
