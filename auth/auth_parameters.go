package auth

import "github.com/d-madiou/job-board-client/users"

const (
	DefaultLoginPath    = "/auth/login/"
	DefaultRegisterPath = "/auth/register/"
)

// TokenPair is the "tokens" object of a login or register response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the success body of POST /auth/login/ and POST /auth/register/.
type AuthResponse struct {
	User    users.User `json:"user"`
	Tokens  TokenPair  `json:"tokens"`
	Message string     `json:"message,omitempty"`
}
