// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"
	"errors"
	"time"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("feedback session not found")
	ErrVersionConflict = errors.New("feedback session was modified concurrently")
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.FeedbackSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.FeedbackSession, error)
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.FeedbackSession, error)
	// Save writes s only if the stored version still equals s.Version, then bumps it.
	Save(ctx context.Context, s *models.FeedbackSession) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteIfVersion removes an active session only while its stored version
	// still equals version.
	DeleteIfVersion(ctx context.Context, id primitive.ObjectID, version int) error
	FindStale(ctx context.Context, now time.Time, threshold time.Duration) ([]models.FeedbackSession, error)
	Find(ctx context.Context, q Query) ([]models.FeedbackSession, error)
	List(ctx context.Context, q Query, page, limit int64) ([]models.FeedbackSession, int64, error)
	EarliestActivity(ctx context.Context) (*time.Time, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a MongoDB SessionRepository on db.
func NewMongoSessionRepo(db *mongo.Database) SessionRepository {
	return &mongoSessionRepo{
		coll: db.Collection("feedback_sessions"),
	}
}
