package staff

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pharmakiosk/models"
	"pharmakiosk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var hashCost = bcrypt.DefaultCost

var (
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// verifyPasswordComplexity requires at least 8 characters mixing upper case,
// lower case and digits.
func verifyPasswordComplexity(pw string) error {
	switch {
	case len(pw) < 8:
		return fmt.Errorf("%w: at least 8 characters", ErrWeakPassword)
	case !hasUpper.MatchString(pw):
		return fmt.Errorf("%w: missing an uppercase letter", ErrWeakPassword)
	case !hasLower.MatchString(pw):
		return fmt.Errorf("%w: missing a lowercase letter", ErrWeakPassword)
	case !hasNumber.MatchString(pw):
		return fmt.Errorf("%w: missing a number", ErrWeakPassword)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account unless one with that email
// already exists.
func (s *DefaultStaffService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrInvalidCredentials
	}
	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up admin %s: %w", email, err)
	}
	if existing != nil {
		return nil
	}
	if err := verifyPasswordComplexity(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		ID:           uuid.New().String(),
		FirstName:    "Admin",
		Email:        email,
		Role:         models.RoleAdmin,
		Active:       true,
		PasswordHash: string(hash),
	}
	if err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.logger().Info("Admin account created", zap.String("email", email))
	return nil
}

// AuthenticateAdmin checks admin credentials and issues a signed token.
func (s *DefaultStaffService) AuthenticateAdmin(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		s.logger().Error("AuthenticateAdmin: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again: %w", err)
	}
	if user == nil || user.Role != models.RoleAdmin || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = utils.AdminTokenTTL
	}
	token, err := utils.GenerateToken(user.ID, user.Email, string(models.RoleAdmin), ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{
		ID:        user.ID,
		Token:     token,
		Email:     user.Email,
		Name:      user.FullName(),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
