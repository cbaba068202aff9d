package userRepo

import (
	"context"
	"errors"

	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrNotFound = errors.New("user not found")

// UserRepository defines methods for employee and admin data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by email; nil, nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetAll retrieves users matching the search criteria.
	GetAll(ctx context.Context, criteria UserSearchCriteria) ([]models.User, error)
	// CountByPosition counts users assigned to a position.
	CountByPosition(ctx context.Context, positionID string) (int64, error)
	Create(ctx context.Context, user *models.User) error
	// UpdateSetDocument applies a $set with the given fields.
	UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

// UserSearchCriteria holds list filters; zero values do not filter.
type UserSearchCriteria struct {
	Role       models.UserRole
	ActiveOnly bool
	PositionID string
}
