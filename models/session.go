// File: models/session.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus is the lifecycle state of a kiosk feedback session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
	SessionProcessed SessionStatus = "processed"
)

// DefaultInactivityTimeout is the session expiry in minutes when none is given.
const DefaultInactivityTimeout = 1440

// EmployeeRating is one staff rating left during a session.
type EmployeeRating struct {
	EmployeeID string `bson:"employeeId" json:"employeeId"`
	Rating     int    `bson:"rating" json:"rating"`
	Comment    string `bson:"comment,omitempty" json:"comment,omitempty"`
}

// ClientData holds the optional contact details a client may leave.
type ClientData struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
	Consent   bool   `bson:"consent" json:"consent"`
}

// FeedbackSession is one kiosk visit. SessionID always equals ID.Hex().
type FeedbackSession struct {
	ID                primitive.ObjectID `bson:"_id" json:"-"`
	SessionID         string             `bson:"sessionId" json:"sessionId"`
	DeviceID          string             `bson:"deviceId" json:"deviceId"`
	PharmacyRating    *int               `bson:"pharmacyRating,omitempty" json:"pharmacyRating,omitempty"`
	EmployeeRatings   []EmployeeRating   `bson:"employeeRatings" json:"employeeRatings"`
	ClientData        *ClientData        `bson:"clientData,omitempty" json:"clientData,omitempty"`
	Suggestion        *string            `bson:"suggestion,omitempty" json:"suggestion,omitempty"`
	Status            SessionStatus      `bson:"status" json:"status"`
	Completed         bool               `bson:"completed" json:"completed"`
	Processed         bool               `bson:"processed" json:"processed"`
	StartedAt         time.Time          `bson:"startedAt" json:"startedAt"`
	LastActiveAt      time.Time          `bson:"lastActiveAt" json:"lastActiveAt"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	InactivityTimeout int                `bson:"inactivityTimeout" json:"inactivityTimeout"`
	Version           int                `bson:"version" json:"version"`
}

// HasSuggestion reports whether a non-blank suggestion was left.
func (s *FeedbackSession) HasSuggestion() bool {
	return s.Suggestion != nil && strings.TrimSpace(*s.Suggestion) != ""
}

// HasValidData reports whether the session carries anything worth archiving.
func (s *FeedbackSession) HasValidData() bool {
	return s.PharmacyRating != nil || len(s.EmployeeRatings) > 0 || s.HasSuggestion()
}

// IsStale reports whether an active session has been idle long enough to be swept,
// either past the sweep threshold or past its own inactivity timeout.
func (s *FeedbackSession) IsStale(now time.Time, threshold time.Duration) bool {
	if s.Status != SessionActive {
		return false
	}
	idle := now.Sub(s.LastActiveAt)
	if threshold > 0 && idle >= threshold {
		return true
	}
	timeout := s.InactivityTimeout
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	return idle >= time.Duration(timeout)*time.Minute
}

// Touch stamps the last activity time.
func (s *FeedbackSession) Touch(now time.Time) {
	s.LastActiveAt = now
}
