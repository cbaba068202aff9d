package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	positionRepo "pharmakiosk/database/repository/position"
	userRepo "pharmakiosk/database/repository/user"
	"pharmakiosk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func (s *DefaultStaffService) CreateEmployee(ctx context.Context, input EmployeeInput) (*models.EmployeeView, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, ErrInvalidEmployee
	}
	positionID := strings.TrimSpace(input.PositionID)
	if positionID != "" {
		if _, err := s.GetPosition(ctx, positionID); err != nil {
			return nil, err
		}
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	user := &models.User{
		ID:         uuid.New().String(),
		FirstName:  first,
		LastName:   last,
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Role:       models.RoleEmployee,
		PositionID: positionID,
		Active:     active,
		PhotoURL:   strings.TrimSpace(input.PhotoURL),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.logger().Info("Employee created", zap.String("employeeId", user.ID))
	return s.view(ctx, *user, nil), nil
}

// ListEmployees returns employees ordered by name with their position names.
func (s *DefaultStaffService) ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeView, error) {
	users, err := s.Users.GetAll(ctx, userRepo.UserSearchCriteria{Role: models.RoleEmployee, ActiveOnly: activeOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	names := s.positionNames(ctx)

	views := make([]models.EmployeeView, 0, len(users))
	for _, u := range users {
		views = append(views, *s.view(ctx, u, names))
	}
	return views, nil
}

func (s *DefaultStaffService) GetEmployee(ctx context.Context, id string) (*models.EmployeeView, error) {
	u, err := s.employee(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *u, nil), nil
}

// UpdateEmployee applies the non-nil fields of req.
func (s *DefaultStaffService) UpdateEmployee(ctx context.Context, id string, req models.UserUpdateRequest) (*models.EmployeeView, error) {
	if _, err := s.employee(ctx, id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		if v == "" {
			return nil, ErrInvalidEmployee
		}
		set["firstName"] = v
	}
	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		if v == "" {
			return nil, ErrInvalidEmployee
		}
		set["lastName"] = v
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PositionID != nil {
		positionID := strings.TrimSpace(*req.PositionID)
		if positionID != "" {
			if _, err := s.GetPosition(ctx, positionID); err != nil {
				return nil, err
			}
		}
		set["positionId"] = positionID
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}
	if req.PhotoURL != nil {
		set["photoUrl"] = strings.TrimSpace(*req.PhotoURL)
	}

	if len(set) > 0 {
		if err := s.Users.UpdateSetDocument(ctx, id, set); err != nil {
			if errors.Is(err, userRepo.ErrNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, fmt.Errorf("failed to update employee %s: %w", id, err)
		}
	}
	return s.GetEmployee(ctx, id)
}

func (s *DefaultStaffService) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.employee(ctx, id); err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	s.logger().Info("Employee deleted", zap.String("employeeId", id))
	return nil
}

// employee loads a user that is an employee; admins are not visible here.
func (s *DefaultStaffService) employee(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to fetch employee %s: %w", id, err)
	}
	if u == nil || u.Role != models.RoleEmployee {
		return nil, ErrEmployeeNotFound
	}
	return u, nil
}

// positionNames indexes position names by id. Failures leave names blank.
func (s *DefaultStaffService) positionNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	positions, err := s.Positions.GetAll(ctx)
	if err != nil {
		s.logger().Warn("Failed to load positions for employee listing", zap.Error(err))
		return names
	}
	for _, p := range positions {
		names[p.ID] = p.Name
	}
	return names
}

func (s *DefaultStaffService) view(ctx context.Context, u models.User, names map[string]string) *models.EmployeeView {
	u.PasswordHash = ""
	v := &models.EmployeeView{User: u}
	if u.PositionID == "" {
		return v
	}
	if names != nil {
		v.PositionName = names[u.PositionID]
		return v
	}
	p, err := s.Positions.GetByID(ctx, u.PositionID)
	if err != nil {
		if !errors.Is(err, positionRepo.ErrNotFound) {
			s.logger().Warn("Failed to resolve employee position",
				zap.String("employeeId", u.ID),
				zap.String("positionId", u.PositionID),
				zap.Error(err),
			)
		}
		return v
	}
	v.PositionName = p.Name
	return v
}
