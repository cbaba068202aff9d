// File: database/repository/session/queries.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindStale returns active sessions idle for at least threshold, or past their own
// inactivityTimeout.
func (r *mongoSessionRepo) FindStale(ctx context.Context, now time.Time, threshold time.Duration) ([]models.FeedbackSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// lastActiveAt + inactivityTimeout minutes <= now
	timeoutExpr := bson.M{"$lte": bson.A{
		bson.M{"$add": bson.A{"$lastActiveAt", bson.M{"$multiply": bson.A{"$inactivityTimeout", 60000}}}},
		now,
	}}
	filter := bson.M{
		"status": models.SessionActive,
		"$or": bson.A{
			bson.M{"lastActiveAt": bson.M{"$lte": now.Add(-threshold)}},
			bson.M{"$expr": timeoutExpr},
		},
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "lastActiveAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stale sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.FeedbackSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding stale sessions: %w", err)
	}
	return sessions, nil
}

func (r *mongoSessionRepo) Find(ctx context.Context, q Query) ([]models.FeedbackSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastActiveAt", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := r.coll.Find(ctx, q.Filter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.FeedbackSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding sessions: %w", err)
	}
	return sessions, nil
}

// List returns one page (1-based) of matching sessions and the total match count.
func (r *mongoSessionRepo) List(ctx context.Context, q Query, page, limit int64) ([]models.FeedbackSession, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	filter := q.Filter()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "lastActiveAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.FeedbackSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, 0, fmt.Errorf("error decoding sessions: %w", err)
	}
	return sessions, total, nil
}

func (r *mongoSessionRepo) EarliestActivity(ctx context.Context) (*time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"earliest": bson.M{"$min": "$lastActiveAt"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earliest activity: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Earliest time.Time `bson:"earliest"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	if len(result) == 0 || result[0].Earliest.IsZero() {
		return nil, nil
	}
	return &result[0].Earliest, nil
}
