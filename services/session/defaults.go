package session

import (
	"context"

	"pharmakiosk/models"

	"go.uber.org/zap"
)

// SettingsReader supplies the back-office session defaults.
type SettingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

func (s *DefaultSessionService) sessionSettings(ctx context.Context) (models.SessionSettings, bool) {
	if s.Settings == nil {
		return models.SessionSettings{}, false
	}
	st, err := s.Settings.Get(ctx)
	if err != nil || st == nil {
		s.logger().Warn("Failed to load session settings, using defaults", zap.Error(err))
		return models.SessionSettings{}, false
	}
	return st.Sessions, true
}

// defaultTimeout is the inactivity timeout for sessions created without one.
func (s *DefaultSessionService) defaultTimeout(ctx context.Context) int {
	if st, ok := s.sessionSettings(ctx); ok && st.DefaultInactivityTimeout > 0 {
		return st.DefaultInactivityTimeout
	}
	return models.DefaultInactivityTimeout
}

// sweepThreshold resolves the idle minutes for a sweep: the requested value,
// then settings, then SweepAfterMinutes, then DefaultSweepMinutes.
func (s *DefaultSessionService) sweepThreshold(ctx context.Context, requested int) int {
	if requested > 0 {
		return requested
	}
	if st, ok := s.sessionSettings(ctx); ok && st.SweepAfterMinutes > 0 {
		return st.SweepAfterMinutes
	}
	if s.SweepAfterMinutes > 0 {
		return s.SweepAfterMinutes
	}
	return DefaultSweepMinutes
}
