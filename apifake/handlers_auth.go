package apifake

import (
	"errors"
	"net/http"
	"strings"

	"github.com/d-madiou/job-board-client/apifake/accounts"
	"github.com/d-madiou/job-board-client/apifake/token"
	"github.com/d-madiou/job-board-client/auth"
	"github.com/d-madiou/job-board-client/forms"
	"github.com/d-madiou/job-board-client/users"
)

const (
	invalidCredentialsMsg = "Invalid credentials"
	refreshInvalidMsg     = "Token is invalid or expired"
	requiredFieldMsg      = "This field is required."
)

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds forms.LoginCredentials
		if !decodeBody(w, r, &creds) {
			return
		}
		missing := map[string]string{}
		if strings.TrimSpace(creds.Email) == "" {
			missing["email"] = requiredFieldMsg
		}
		if creds.Password == "" {
			missing["password"] = requiredFieldMsg
		}
		if len(missing) > 0 {
			writeFieldErrors(w, missing)
			return
		}

		account, err := s.accounts.GetByEmail(creds.Email)
		if err != nil || !account.CheckPassword(creds.Password) {
			writeDetail(w, http.StatusUnauthorized, invalidCredentialsMsg)
			return
		}
		if err := s.accounts.SetLoggedIn(account.User.ID, s.Now()); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", account.User.ID).Msg("failed to record login")
		}

		s.writeAuthResponse(w, http.StatusOK, account.User, "Login successful")
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.RegistrationForm
		if !decodeBody(w, r, &form) {
			return
		}
		if err := form.Validate(); err != nil {
			writeValidationError(w, err)
			return
		}

		role := form.Role
		if role == "" {
			role = users.RoleUser
		}
		account := &accounts.Account{
			User: users.User{
				Email:      strings.TrimSpace(form.Email),
				Username:   form.Username,
				FirstName:  form.FirstName,
				LastName:   form.LastName,
				Role:       role,
				Phone:      form.Phone,
				Location:   form.Location,
				DateJoined: s.Now().UTC(),
			},
		}
		if err := account.SetPassword(form.Password, s.bcryptCost); err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}

		switch err := s.accounts.Create(account); {
		case errors.Is(err, accounts.DuplicateEmailErr):
			writeFieldErrors(w, map[string]string{"email": err.Error()})
			return
		case errors.Is(err, accounts.DuplicateUsernameErr):
			writeFieldErrors(w, map[string]string{"username": err.Error()})
			return
		case err != nil:
			s.logger.Error().Err(err).Msg("failed to create account")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}

		s.writeAuthResponse(w, http.StatusCreated, account.User, "User registered successfully")
	}
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, status int, user users.User, msg string) {
	access, err := s.creator.CreateAccessToken(&user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create access token")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	refresh, err := s.refresh.Create(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create refresh token")
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, status, auth.AuthResponse{
		User:    user,
		Tokens:  auth.TokenPair{Access: access, Refresh: refresh},
		Message: msg,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// TokenRefreshHandler exchanges a refresh token for a new access token. The refresh token
// itself is not rotated.
func (s *Server) TokenRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Refresh == "" {
			writeFieldErrors(w, map[string]string{"refresh": requiredFieldMsg})
			return
		}

		invalid := func() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": refreshInvalidMsg,
				"code":   "token_not_valid",
			})
		}
		stored, err := s.refresh.Validate(req.Refresh)
		if err != nil {
			if !errors.Is(err, token.NotFoundErr) && !errors.Is(err, token.ExpiredRefreshTokenErr) {
				s.logger.Error().Err(err).Msg("refresh token lookup failed")
			}
			invalid()
			return
		}
		account, err := s.accounts.GetByID(stored.UserID)
		if err != nil {
			invalid()
			return
		}
		access, err := s.creator.CreateAccessToken(&account.User)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create access token")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{Access: access})
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, accountFrom(r.Context()).User)
	}
}

func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update users.ProfileUpdate
		if !decodeBody(w, r, &update) {
			return
		}
		if err := update.Validate(); err != nil {
			writeValidationError(w, err)
			return
		}

		account := *accountFrom(r.Context())
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		apply(&account.User.FirstName, update.FirstName)
		apply(&account.User.LastName, update.LastName)
		apply(&account.User.Phone, update.Phone)
		apply(&account.User.Location, update.Location)
		apply(&account.User.Bio, update.Bio)

		if err := s.accounts.Update(&account); err != nil {
			s.logger.Error().Err(err).Msg("failed to update profile")
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		writeJSON(w, http.StatusOK, account.User)
	}
}
