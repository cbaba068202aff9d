package session

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session is no longer active")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrMissingDeviceID   = errors.New("deviceId is required")
	ErrMissingEmployeeID = errors.New("employeeId is required for every employee rating")
	ErrVersionConflict   = errors.New("session was modified concurrently, retry")
	ErrUnknownAction     = errors.New("unknown sync action")
)
