package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	positionRepo "pharmakiosk/database/repository/position"
	"pharmakiosk/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultStaffService) CreatePosition(ctx context.Context, name, description string) (*models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidPosition
	}
	now := time.Now()
	p := &models.Position{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Positions.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	s.logger().Info("Position created", zap.String("positionId", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *DefaultStaffService) ListPositions(ctx context.Context) ([]models.Position, error) {
	positions, err := s.Positions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

func (s *DefaultStaffService) GetPosition(ctx context.Context, id string) (*models.Position, error) {
	p, err := s.Positions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, positionRepo.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *DefaultStaffService) UpdatePosition(ctx context.Context, id, name, description string) (*models.Position, error) {
	p, err := s.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()

	if err := s.Positions.Update(ctx, p); err != nil {
		if errors.Is(err, positionRepo.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to update position %s: %w", id, err)
	}
	return p, nil
}

// DeletePosition refuses while any employee still holds the position.
func (s *DefaultStaffService) DeletePosition(ctx context.Context, id string) error {
	if _, err := s.GetPosition(ctx, id); err != nil {
		return err
	}
	inUse, err := s.Users.CountByPosition(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check position usage: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("%w (%d)", ErrPositionInUse, inUse)
	}
	if err := s.Positions.Delete(ctx, id); err != nil {
		if errors.Is(err, positionRepo.ErrNotFound) {
			return ErrPositionNotFound
		}
		return fmt.Errorf("failed to delete position %s: %w", id, err)
	}
	s.logger().Info("Position deleted", zap.String("positionId", id))
	return nil
}
