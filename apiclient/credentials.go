package apiclient

import "context"

// CredentialProvider supplies the tokens the client attaches and refreshes.
// sessions.Store is the production implementation.
type CredentialProvider interface {
	AccessToken(ctx context.Context) (string, bool)
	RefreshToken(ctx context.Context) (string, bool)

	// UpdateAccessToken stores a refreshed access token minted from refreshUsed. It
	// returns ErrSessionEnded when the session is no longer the one refreshUsed
	// belongs to.
	UpdateAccessToken(ctx context.Context, refreshUsed, accessToken string) error
}

// Anonymous is a CredentialProvider with no session.
type Anonymous struct{}

var _ CredentialProvider = Anonymous{}

func (Anonymous) AccessToken(context.Context) (string, bool)  { return "", false }
func (Anonymous) RefreshToken(context.Context) (string, bool) { return "", false }

func (Anonymous) UpdateAccessToken(context.Context, string, string) error {
	return ErrSessionEnded
}

// StaticCredentials is a fixed token pair held in memory, mostly for tests and scripts.
type StaticCredentials struct {
	Access  string
	Refresh string
}

var _ CredentialProvider = (*StaticCredentials)(nil)

func (s *StaticCredentials) AccessToken(context.Context) (string, bool) {
	return s.Access, s.Access != ""
}

func (s *StaticCredentials) RefreshToken(context.Context) (string, bool) {
	return s.Refresh, s.Refresh != ""
}

func (s *StaticCredentials) UpdateAccessToken(_ context.Context, refreshUsed, accessToken string) error {
	if s.Refresh == "" || s.Refresh != refreshUsed {
		return ErrSessionEnded
	}
	s.Access = accessToken
	return nil
}
