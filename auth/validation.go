package auth

import (
	"github.com/pkg/errors"
)

// validateAuthResponse checks that a success body carries everything a session needs.
func validateAuthResponse(resp *AuthResponse) error {
	if resp == nil {
		return MalformedAuthErr
	}
	if !resp.User.WellFormed() {
		return errors.Wrap(MalformedAuthErr, "user record has no id")
	}
	if resp.Tokens.Access == "" {
		return errors.Wrap(MalformedAuthErr, "access token missing")
	}
	if resp.Tokens.Refresh == "" {
		return errors.Wrap(MalformedAuthErr, "refresh token missing")
	}
	return nil
}
