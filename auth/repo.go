package auth

import (
	"context"

	"github.com/d-madiou/job-board-client/apiclient"
	"github.com/d-madiou/job-board-client/sessions"
	"github.com/d-madiou/job-board-client/users"
)

// SessionRepo is the persisted session the Controller owns. *sessions.Store implements it.
type SessionRepo interface {
	Save(ctx context.Context, sess sessions.Session) error
	Load(ctx context.Context) (sessions.Session, bool)
	Clear(ctx context.Context) error
	UpdateUser(ctx context.Context, user users.User) error
}

// API sends the authentication calls. *apiclient.Client implements it.
type API interface {
	DoOnce(ctx context.Context, req *apiclient.Request) (*apiclient.Response, error)
}

var (
	_ SessionRepo = (*sessions.Store)(nil)
	_ API         = (*apiclient.Client)(nil)
)
