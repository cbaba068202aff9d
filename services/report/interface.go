package report

import (
	"context"
	"time"

	reportRepo "pharmakiosk/database/repository/report"
	sessionRepo "pharmakiosk/database/repository/session"
	"pharmakiosk/models"
	"pharmakiosk/services/stats"
	"pharmakiosk/services/storage"

	"go.uber.org/zap"
)

type ReportService interface {
	GenerateReport(ctx context.Context, req GenerateRequest) (*models.Report, error)
	GenerateMonthlyReport(ctx context.Context) (*models.Report, error)

	ListReports(ctx context.Context, reportType models.ReportType, page, limit int64) (*ReportPage, error)
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	// DownloadReport counts a download and returns the record with its file path.
	DownloadReport(ctx context.Context, id string) (*models.Report, error)
	DeleteReport(ctx context.Context, id string) error
}

// SessionFinder is the session query used to select report rows.
type SessionFinder interface {
	Find(ctx context.Context, q sessionRepo.Query) ([]models.FeedbackSession, error)
}

// SettingsReader supplies report branding and the monthly report format.
type SettingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

type DefaultReportService struct {
	Repo      reportRepo.ReportRepository
	Sessions  SessionFinder
	Directory stats.Directory
	Settings  SettingsReader
	Archive   storage.ArchiveService // nil disables archiving
	Dir       string
	Location  *time.Location
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewReportService(repo reportRepo.ReportRepository, sessions SessionFinder, directory stats.Directory, settings SettingsReader, archive storage.ArchiveService, dir string, loc *time.Location, logger *zap.Logger) *DefaultReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if dir == "" {
		dir = DefaultDir
	}
	return &DefaultReportService{
		Repo:      repo,
		Sessions:  sessions,
		Directory: directory,
		Settings:  settings,
		Archive:   archive,
		Dir:       dir,
		Location:  loc,
		Logger:    logger,
		Now:       time.Now,
	}
}

// DefaultDir is where report files are written when no directory is configured.
const DefaultDir = "public/reports"

func (s *DefaultReportService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultReportService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultReportService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Sentiment filters rows by their rating.
type Sentiment string

const (
	SentimentAny      Sentiment = ""
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// GenerateRequest describes one report generation.
type GenerateRequest struct {
	Type       models.ReportType   `json:"type"`
	Format     models.ReportFormat `json:"format"`
	UserID     string              `json:"-"`
	DateRange  *models.DateRange   `json:"dateRange,omitempty"`
	EmployeeID string              `json:"employeeId,omitempty"`
	Sentiment  Sentiment           `json:"sentiment,omitempty"`
}

type ReportPage struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Page    int64           `json:"page"`
	Limit   int64           `json:"limit"`
}
