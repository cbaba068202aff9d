// models/user.go
package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// User is either a rated employee or a back-office admin.
type User struct {
	ID           string    `bson:"id" json:"id"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	Role         UserRole  `bson:"role" json:"role"`
	PositionID   string    `bson:"positionId,omitempty" json:"positionId,omitempty"`
	Active       bool      `bson:"active" json:"active"`
	PhotoURL     string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EmployeeView is the kiosk/admin listing shape with the position name resolved.
type EmployeeView struct {
	User
	PositionName string `json:"positionName,omitempty"`
}

// UserUpdateRequest carries a partial employee update; nil fields are left alone.
type UserUpdateRequest struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Email      *string `json:"email,omitempty"`
	PositionID *string `json:"positionId,omitempty"`
	Active     *bool   `json:"active,omitempty"`
	PhotoURL   *string `json:"photoUrl,omitempty"`
}
