package report

import (
	"context"
	"errors"
	"os"

	reportRepo "pharmakiosk/database/repository/report"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *DefaultReportService) ListReports(ctx context.Context, reportType models.ReportType, page, limit int64) (*ReportPage, error) {
	if reportType != "" && !validReportType(reportType) {
		return nil, ErrInvalidReportType
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	reports, total, err := s.Repo.List(ctx, reportType, page, limit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return &ReportPage{Reports: reports, Total: total, Page: page, Limit: limit}, nil
}

func (s *DefaultReportService) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reportRepo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// DownloadReport checks the file is still on disk before counting the download.
func (s *DefaultReportService) DownloadReport(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.GetReportByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(report.FilePath); err != nil {
		s.logger().Warn("Report file missing", zap.String("id", id), zap.String("path", report.FilePath), zap.Error(err))
		return nil, ErrReportFileMissing
	}

	updated, err := s.Repo.IncrementDownloads(ctx, id)
	if err != nil {
		if errors.Is(err, reportRepo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteReport removes the record, the local file and any archived copy.
// A file that is already gone is not an error.
func (s *DefaultReportService) DeleteReport(ctx context.Context, id string) error {
	report, err := s.GetReportByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, reportRepo.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	if report.FilePath != "" {
		if err := os.Remove(report.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger().Warn("Failed to remove report file", zap.String("path", report.FilePath), zap.Error(err))
		}
	}
	s.dropArchive(ctx, report.RemoteID)

	s.logger().Info("Report deleted", zap.String("id", id))
	return nil
}

func (s *DefaultReportService) dropArchive(ctx context.Context, remoteID string) {
	if s.Archive == nil || remoteID == "" {
		return
	}
	if err := s.Archive.Delete(ctx, remoteID); err != nil {
		s.logger().Warn("Failed to delete archived report", zap.String("remoteId", remoteID), zap.Error(err))
	}
}
