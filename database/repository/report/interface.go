package reportRepo

import (
	"context"
	"errors"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("report not found")

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, reportType models.ReportType, page, limit int64) ([]models.Report, int64, error)
	IncrementDownloads(ctx context.Context, id string) (*models.Report, error)
	DeleteByID(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoReportRepo struct {
	coll *mongo.Collection
}

// NewMongoReportRepo returns a ReportRepository backed by the reports collection.
func NewMongoReportRepo(db *mongo.Database) ReportRepository {
	return &mongoReportRepo{
		coll: db.Collection("reports"),
	}
}
