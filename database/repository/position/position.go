package positionRepo

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

var ErrNotFound = errors.New("position not found")

type PositionRepository interface {
	Create(ctx context.Context, p *models.Position) error
	GetByID(ctx context.Context, id string) (*models.Position, error)
	GetAll(ctx context.Context) ([]models.Position, error)
	Update(ctx context.Context, p *models.Position) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoPositionRepo struct {
	coll *mongo.Collection
}

func NewMongoPositionRepo(db *mongo.Database) PositionRepository {
	return &mongoPositionRepo{coll: db.Collection("positions")}
}

func (r *mongoPositionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_name")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create position indexes: %w", err)
	}
	return nil
}

func (r *mongoPositionRepo) Create(ctx context.Context, p *models.Position) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}
	return nil
}

func (r *mongoPositionRepo) GetByID(ctx context.Context, id string) (*models.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Position
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch position %s: %w", id, err)
	}
	return &p, nil
}

func (r *mongoPositionRepo) GetAll(ctx context.Context) ([]models.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	defer cursor.Close(ctx)

	positions := []models.Position{}
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, fmt.Errorf("error decoding positions: %w", err)
	}
	return positions, nil
}

func (r *mongoPositionRepo) Update(ctx context.Context, p *models.Position) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"updatedAt":   p.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update position %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPositionRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
