// FILE: database/repository/session/indexes.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes used by lookups, sweeps and dashboard queries.
func (r *mongoSessionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_session_id"),
		},
		// Sweep: active sessions ordered by idleness.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "lastActiveAt", Value: 1}},
			Options: options.Index().SetName("status_last_active_idx"),
		},
		{
			Keys:    bson.D{{Key: "lastActiveAt", Value: -1}},
			Options: options.Index().SetName("last_active_idx"),
		},
		{
			Keys:    bson.D{{Key: "deviceId", Value: 1}, {Key: "lastActiveAt", Value: -1}},
			Options: options.Index().SetName("device_last_active_idx"),
		},
		{
			Keys:    bson.D{{Key: "employeeRatings.employeeId", Value: 1}},
			Options: options.Index().SetName("employee_ratings_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create feedback session indexes: %w", err)
	}
	return nil
}
