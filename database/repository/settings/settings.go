package settingsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepository interface {
	// Get returns the singleton document, inserting defaults when absent.
	Get(ctx context.Context, defaults models.Settings) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo(db *mongo.Database) SettingsRepository {
	return &mongoSettingsRepo{coll: db.Collection("settings")}
}

func (r *mongoSettingsRepo) Get(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	defaults.Key = models.SettingsKey
	defaults.UpdatedAt = time.Now()

	// $setOnInsert makes concurrent first reads converge on one document.
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var s models.Settings
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"key": models.SettingsKey},
		bson.M{"$setOnInsert": defaults},
		opts,
	).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &s, nil
}

func (r *mongoSettingsRepo) Save(ctx context.Context, s *models.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.Key = models.SettingsKey
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"key": models.SettingsKey}, s, opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
