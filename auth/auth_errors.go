package auth

import "errors"

var (
	NotAuthenticatedErr = errors.New("not authenticated")
	MalformedAuthErr    = errors.New("malformed authentication response")
)

// Messages shown through Snapshot.Error when the API gives no usable error text.
const (
	LoginFailedMsg        = "Login failed. Please check your credentials and try again."
	RegistrationFailedMsg = "Registration failed. Please try again."
	SessionSaveFailedMsg  = "Could not save your session. Please try again."
	SessionExpiredMsg     = "Your session has expired. Please log in again."
)
