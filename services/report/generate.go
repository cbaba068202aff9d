package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pharmakiosk/models"

	"go.uber.org/zap"
)

// SystemUser is recorded as the author of scheduled reports.
const SystemUser = "system"

// fileStampLayout keeps milliseconds; the dot is swapped for a dash in file names.
const fileStampLayout = "2006-01-02T15-04-05.000Z"

// maxNameAttempts bounds the suffixes tried when a file name is already taken.
const maxNameAttempts = 100

func fileStamp(t time.Time) string {
	return strings.Replace(t.UTC().Format(fileStampLayout), ".", "-", 1)
}

// reserveFile claims a report file name in dir by creating it exclusively.
// Reports generated in the same millisecond get a numeric suffix.
func reserveFile(dir, base, ext string) (name, path string, err error) {
	for i := 1; i <= maxNameAttempts; i++ {
		name = fmt.Sprintf("%s.%s", base, ext)
		if i > 1 {
			name = fmt.Sprintf("%s_%d.%s", base, i, ext)
		}
		path = filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to create report file: %w", err)
		}
		return name, path, f.Close()
	}
	return "", "", fmt.Errorf("no free report file name for %s", base)
}

func validReportType(t models.ReportType) bool {
	for _, known := range models.ReportTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (s *DefaultReportService) validate(req *GenerateRequest) error {
	if !validReportType(req.Type) {
		return ErrInvalidReportType
	}
	req.Format = models.ReportFormat(strings.ToUpper(string(req.Format)))
	if req.Format != models.FormatPDF && req.Format != models.FormatExcel {
		return ErrInvalidFormat
	}
	req.Sentiment = Sentiment(strings.ToLower(string(req.Sentiment)))
	if !req.Sentiment.valid() {
		return ErrInvalidSentiment
	}
	if r := req.DateRange; r != nil {
		if !r.Start.IsZero() && !r.End.IsZero() && !r.End.After(r.Start) {
			return ErrInvalidDateRange
		}
		if r.Start.IsZero() && r.End.IsZero() {
			req.DateRange = nil
		}
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	return nil
}

func (s *DefaultReportService) loadBranding(ctx context.Context) branding {
	b := branding{}
	defaults := models.DefaultSettings()
	settings := &defaults
	if s.Settings != nil {
		current, err := s.Settings.Get(ctx)
		if err != nil {
			s.logger().Warn("Failed to load settings for report branding, using defaults", zap.Error(err))
		} else if current != nil {
			settings = current
		}
	}
	b.Pharmacy = settings.Display.PharmacyName
	b.Logo = settings.Reports.LogoText
	if b.Logo == "" {
		b.Logo = b.Pharmacy
	}
	b.Footer = settings.Reports.FooterText
	return b
}

// GenerateReport renders a report to disk, archives a copy when configured and
// records it. The record is only created once the file exists.
func (s *DefaultReportService) GenerateReport(ctx context.Context, req GenerateRequest) (*models.Report, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	t, err := s.buildTable(ctx, req)
	if err != nil {
		s.logger().Error("Failed to build report", zap.String("type", string(req.Type)), zap.Error(err))
		return nil, err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	now := s.now()
	name, path, err := reserveFile(s.Dir, fmt.Sprintf("%s_%s", req.Type, fileStamp(now)), req.Format.Extension())
	if err != nil {
		return nil, err
	}

	brand := s.loadBranding(ctx)
	generatedAt := now.In(s.location())
	switch req.Format {
	case models.FormatExcel:
		err = renderXLSX(path, t, brand, generatedAt)
	default:
		err = renderPDF(path, t, brand, generatedAt)
	}
	if err != nil {
		os.Remove(path)
		s.logger().Error("Failed to render report", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat report file: %w", err)
	}

	report := &models.Report{
		Name:        name,
		Format:      req.Format,
		Size:        info.Size(),
		Type:        req.Type,
		FilePath:    path,
		GeneratedBy: req.UserID,
		DateRange:   req.DateRange,
		EmployeeID:  req.EmployeeID,
		Sentiment:   string(req.Sentiment),
		CreatedAt:   now,
	}

	if s.Archive != nil {
		remoteID, err := s.Archive.Upload(ctx, path, "reports")
		if err != nil {
			s.logger().Warn("Failed to archive report", zap.String("name", name), zap.Error(err))
		} else {
			report.RemoteID = remoteID
		}
	}

	if err := s.Repo.Create(ctx, report); err != nil {
		os.Remove(path)
		s.dropArchive(ctx, report.RemoteID)
		return nil, fmt.Errorf("failed to record report: %w", err)
	}

	s.logger().Info("Report generated",
		zap.String("id", report.ID),
		zap.String("type", string(report.Type)),
		zap.String("format", string(report.Format)),
		zap.Int("rows", len(t.Rows)),
		zap.Int64("size", report.Size))
	return report, nil
}

// previousMonth returns the calendar month before now in loc.
func previousMonth(now time.Time, loc *time.Location) models.DateRange {
	now = now.In(loc)
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return models.DateRange{Start: thisMonth.AddDate(0, -1, 0), End: thisMonth}
}

// GenerateMonthlyReport builds the summary of the previous calendar month in the
// format chosen in settings.
func (s *DefaultReportService) GenerateMonthlyReport(ctx context.Context) (*models.Report, error) {
	format := models.FormatPDF
	if s.Settings != nil {
		settings, err := s.Settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		if !settings.Reports.MonthlyReportEnabled {
			return nil, ErrMonthlyReportDisabled
		}
		if settings.Reports.MonthlyReportFormat != "" {
			format = settings.Reports.MonthlyReportFormat
		}
	}

	period := previousMonth(s.now(), s.location())
	return s.GenerateReport(ctx, GenerateRequest{
		Type:      models.ReportSummary,
		Format:    format,
		UserID:    SystemUser,
		DateRange: &period,
	})
}
