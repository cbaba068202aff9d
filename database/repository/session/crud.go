// File: database/repository/session/crud.go
package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoSessionRepo) Create(ctx context.Context, s *models.FeedbackSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.SessionID = s.ID.Hex()
	if s.EmployeeRatings == nil {
		s.EmployeeRatings = []models.EmployeeRating{}
	}

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to create feedback session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.FeedbackSession, error) {
	return r.findOne(ctx, bson.M{"sessionId": sessionID})
}

func (r *mongoSessionRepo) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.FeedbackSession, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoSessionRepo) findOne(ctx context.Context, filter bson.M) (*models.FeedbackSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.FeedbackSession
	if err := r.coll.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch feedback session: %w", err)
	}
	return &s, nil
}

func (r *mongoSessionRepo) Save(ctx context.Context, s *models.FeedbackSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	expected := s.Version
	s.Version = expected + 1
	if s.EmployeeRatings == nil {
		s.EmployeeRatings = []models.EmployeeRating{}
	}

	filter := bson.M{"_id": s.ID, "version": expected}
	res, err := r.coll.ReplaceOne(ctx, filter, s)
	if err != nil {
		s.Version = expected
		return fmt.Errorf("failed to save feedback session %s: %w", s.SessionID, err)
	}
	if res.MatchedCount == 0 {
		s.Version = expected
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": s.ID})
		if cerr == nil && count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *mongoSessionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feedback session %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepo) DeleteIfVersion(ctx context.Context, id primitive.ObjectID, version int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id, "version": version, "status": models.SessionActive}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete feedback session %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		count, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if cerr == nil && count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}
