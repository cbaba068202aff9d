package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	settingsRepo "pharmakiosk/database/repository/settings"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

var ErrInvalidSettings = errors.New("invalid settings")

type SettingsService interface {
	// Get returns the settings, creating the defaults on first use.
	Get(ctx context.Context) (*models.Settings, error)
	// Update merges a partial JSON document into the stored settings.
	Update(ctx context.Context, patch []byte) (*models.Settings, error)
}

type DefaultSettingsService struct {
	Repo   settingsRepo.SettingsRepository
	Logger *zap.Logger
}

func NewSettingsService(repo settingsRepo.SettingsRepository, logger *zap.Logger) *DefaultSettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSettingsService{Repo: repo, Logger: logger}
}

func (s *DefaultSettingsService) Get(ctx context.Context) (*models.Settings, error) {
	st, err := s.Repo.Get(ctx, models.DefaultSettings())
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Update decodes patch over the current settings, so fields absent from the
// patch keep their stored values.
func (s *DefaultSettingsService) Update(ctx context.Context, patch []byte) (*models.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	updated := *current
	if err := json.Unmarshal(patch, &updated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := validate(&updated); err != nil {
		return nil, err
	}

	updated.Key = models.SettingsKey
	updated.UpdatedAt = time.Now()
	if err := s.Repo.Save(ctx, &updated); err != nil {
		return nil, err
	}
	s.Logger.Info("Settings updated")
	return &updated, nil
}

func validate(st *models.Settings) error {
	switch {
	case st.Display.KioskResetSeconds < 10:
		return fmt.Errorf("%w: kiosk reset must be at least 10 seconds", ErrInvalidSettings)
	case st.Sessions.DefaultInactivityTimeout <= 0:
		return fmt.Errorf("%w: inactivity timeout must be positive", ErrInvalidSettings)
	case st.Sessions.SweepAfterMinutes <= 0:
		return fmt.Errorf("%w: sweep threshold must be positive", ErrInvalidSettings)
	}
	switch st.Reports.MonthlyReportFormat {
	case models.FormatPDF, models.FormatExcel:
	default:
		return fmt.Errorf("%w: unknown report format %q", ErrInvalidSettings, st.Reports.MonthlyReportFormat)
	}
	return nil
}
