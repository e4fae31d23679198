package apifake

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/d-madiou/job-board-client/apifake/accounts"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyAccount stores the authenticated account
const ContextKeyAccount ContextKey = "account"

const (
	notProvidedMsg  = "Authentication credentials were not provided."
	tokenInvalidMsg = "Given token not valid for any token type"
)

// RequireAuth rejects requests without a valid bearer access token.
func (s *Server) RequireAuth() middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, present := bearerToken(r)
			if !present {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				writeDetail(w, http.StatusUnauthorized, notProvidedMsg)
				return
			}
			account, ok := s.authenticate(w, raw)
			if !ok {
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyAccount, account)))
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func (s *Server) OptionalAuth() middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, present := bearerToken(r)
			if !present {
				next(w, r)
				return
			}
			account, ok := s.authenticate(w, raw)
			if !ok {
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyAccount, account)))
		}
	}
}

// authenticate resolves raw to an account, writing the 401 itself on failure.
func (s *Server) authenticate(w http.ResponseWriter, raw string) (*accounts.Account, bool) {
	claims, err := s.creator.ParseAccessToken(raw)
	if err == nil {
		var id int64
		if id, err = claims.UserID(); err == nil {
			var account *accounts.Account
			if account, err = s.accounts.GetByID(id); err == nil {
				return account, true
			}
		}
	}
	if !errors.Is(err, accounts.NotFoundErr) {
		s.logger.Debug().Err(err).Msg("rejected access token")
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"detail": tokenInvalidMsg,
		"code":   "token_not_valid",
	})
	return nil, false
}

// bearerToken returns the token of an "Authorization: Bearer" header. present is true
// whenever an Authorization header was sent at all.
func bearerToken(r *http.Request) (token string, present bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

func accountFrom(ctx context.Context) *accounts.Account {
	account, _ := ctx.Value(ContextKeyAccount).(*accounts.Account)
	return account
}
