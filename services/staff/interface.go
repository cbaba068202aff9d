package staff

import (
	"context"
	"time"

	positionRepo "pharmakiosk/database/repository/position"
	userRepo "pharmakiosk/database/repository/user"
	"pharmakiosk/models"

	"go.uber.org/zap"
)

type StaffService interface {
	// Employees
	CreateEmployee(ctx context.Context, input EmployeeInput) (*models.EmployeeView, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeView, error)
	GetEmployee(ctx context.Context, id string) (*models.EmployeeView, error)
	UpdateEmployee(ctx context.Context, id string, req models.UserUpdateRequest) (*models.EmployeeView, error)
	DeleteEmployee(ctx context.Context, id string) error

	// Positions
	CreatePosition(ctx context.Context, name, description string) (*models.Position, error)
	ListPositions(ctx context.Context) ([]models.Position, error)
	GetPosition(ctx context.Context, id string) (*models.Position, error)
	UpdatePosition(ctx context.Context, id, name, description string) (*models.Position, error)
	DeletePosition(ctx context.Context, id string) error

	// Admin accounts
	EnsureAdmin(ctx context.Context, email, password string) error
	AuthenticateAdmin(ctx context.Context, email, password string) (*AuthResponse, error)
}

// DefaultStaffService is the production implementation.
type DefaultStaffService struct {
	Users     userRepo.UserRepository
	Positions positionRepo.PositionRepository
	Logger    *zap.Logger
	TokenTTL  time.Duration
}

func NewStaffService(users userRepo.UserRepository, positions positionRepo.PositionRepository, logger *zap.Logger) *DefaultStaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultStaffService{Users: users, Positions: positions, Logger: logger}
}

func (s *DefaultStaffService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// EmployeeInput is the payload for creating an employee.
type EmployeeInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	PositionID string `json:"positionId"`
	PhotoURL   string `json:"photoUrl"`
	Active     *bool  `json:"active,omitempty"`
}

// AuthResponse is returned on a successful admin login.
type AuthResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}
