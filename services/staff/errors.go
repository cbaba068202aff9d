package staff

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrPositionNotFound   = errors.New("position not found")
	ErrPositionInUse      = errors.New("position is assigned to employees")
	ErrInvalidEmployee    = errors.New("first and last name are required")
	ErrInvalidPosition    = errors.New("position name is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password does not meet complexity requirements")
)
