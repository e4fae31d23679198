package sessions

import (
	"context"

	"github.com/d-madiou/job-board-client/users"
)

// Session is the authenticated identity and its credentials. The three fields are
// written and cleared together; a Session with any of them missing is not a session.
type Session struct {
	User         users.User
	AccessToken  string // Short-lived bearer credential
	RefreshToken string // Used only to mint a new access token
}

// Valid reports whether all three parts are present.
func (s Session) Valid() bool {
	return s.User.WellFormed() && s.AccessToken != "" && s.RefreshToken != ""
}

// Storage is durable key-value storage for session entries. Implementations must be
// safe for concurrent use. Get reports ok=false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
