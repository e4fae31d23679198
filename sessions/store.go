package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	interrors "github.com/d-madiou/job-board-client/internal/errors"
	"github.com/d-madiou/job-board-client/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fixed storage keys for the three session entries.
const (
	KeyUser         = "user"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Store persists a Session in a Storage backend. Reads that find partial or malformed
// state report the session as absent.
type Store struct {
	storage Storage
	prefix  string
	logger  zerolog.Logger

	// mu orders writers in this process; it does not lock the backend.
	mu sync.Mutex
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithKeyPrefix namespaces the three keys so independent sessions can share a backend.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(storage Storage, options ...StoreOption) (*Store, error) {
	if storage == nil {
		return nil, errors.New("[NewStore] storage is required")
	}
	s := &Store{
		storage: storage,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Save writes user, access token and refresh token. If any write fails the entries
// are removed again and the error is returned.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return interrors.Wrapf(interrors.ErrInvalidRequest, "[Store.Save] incomplete session")
	}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("[Store.Save] marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []struct{ key, value string }{
		{KeyUser, string(userJSON)},
		{KeyAccessToken, sess.AccessToken},
		{KeyRefreshToken, sess.RefreshToken},
	}
	for _, e := range entries {
		if err := s.storage.Set(ctx, s.key(e.key), e.value); err != nil {
			s.removeAll(ctx)
			return fmt.Errorf("[Store.Save] set %s: %w", e.key, err)
		}
	}
	return nil
}

// Load returns the persisted session, or ok=false when any entry is missing, empty or
// unreadable. It never returns an error.
func (s *Store) Load(ctx context.Context) (Session, bool) {
	rawUser, ok := s.read(ctx, KeyUser)
	if !ok {
		return Session{}, false
	}
	access, ok := s.read(ctx, KeyAccessToken)
	if !ok {
		return Session{}, false
	}
	refresh, ok := s.read(ctx, KeyRefreshToken)
	if !ok {
		return Session{}, false
	}

	var user users.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn().Err(err).Msg("persisted user record is malformed")
		return Session{}, false
	}
	sess := Session{User: user, AccessToken: access, RefreshToken: refresh}
	if !sess.Valid() {
		s.logger.Warn().Msg("persisted user record has no id")
		return Session{}, false
	}
	return sess, true
}

// Clear removes all three entries. Every removal is attempted even if one fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAll(ctx)
}

// UpdateUser replaces the stored user record, leaving tokens untouched. It fails with
// ErrSessionAbsent when no complete session is stored.
func (s *Store) UpdateUser(ctx context.Context, user users.User) error {
	if !user.WellFormed() {
		return interrors.Wrapf(interrors.ErrInvalidRequest, "[Store.UpdateUser] user has no id")
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("[Store.UpdateUser] marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Load(ctx); !ok {
		return interrors.ErrSessionAbsent
	}
	return s.storage.Set(ctx, s.key(KeyUser), string(userJSON))
}

// AccessToken returns the stored access token, if any.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	return s.read(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, if any.
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.read(ctx, KeyRefreshToken)
}

// UpdateAccessToken stores a refreshed access token. The write only happens while the
// refresh token that was used is still the stored one; otherwise the session was
// cleared or replaced meanwhile and ErrSessionEnded is returned.
func (s *Store) UpdateAccessToken(ctx context.Context, refreshUsed, accessToken string) error {
	if accessToken == "" {
		return interrors.Wrapf(interrors.ErrInvalidRequest, "[Store.UpdateAccessToken] empty access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.read(ctx, KeyRefreshToken)
	if !ok || current != refreshUsed {
		return interrors.ErrSessionEnded
	}
	if err := s.storage.Set(ctx, s.key(KeyAccessToken), accessToken); err != nil {
		return fmt.Errorf("[Store.UpdateAccessToken] set access token: %w", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, name string) (string, bool) {
	v, ok, err := s.storage.Get(ctx, s.key(name))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", name).Msg("session storage read failed")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Store) removeAll(ctx context.Context) error {
	var errs []error
	for _, name := range []string{KeyUser, KeyAccessToken, KeyRefreshToken} {
		if err := s.storage.Remove(ctx, s.key(name)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
