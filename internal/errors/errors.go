package errors

import (
	"errors"
	"fmt"
)

// Common error types for the job board client
var (
	// Authentication errors
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRefreshFailed = errors.New("token refresh failed")

	// Session errors
	ErrSessionAbsent = errors.New("session absent")
	ErrSessionEnded  = errors.New("session ended during refresh")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
