package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const refreshTokenBytes = 32

var ExpiredRefreshTokenErr = errors.New("refresh token expired")

// RefreshManager handles refresh token creation and validation.
type RefreshManager struct {
	repo    Repo
	expiry  time.Duration
	nowFunc func() time.Time
}

func NewRefreshManager(repo Repo, expiry time.Duration, nowFunc func() time.Time) (*RefreshManager, error) {
	if repo == nil {
		return nil, fmt.Errorf("[NewRefreshManager] repo is required")
	}
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &RefreshManager{
		repo:    repo,
		expiry:  expiry,
		nowFunc: nowFunc,
	}, nil
}

// Create generates a new opaque refresh token for userID and stores it.
func (m *RefreshManager) Create(userID int64) (string, error) {
	tokenBytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    m.nowFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

// Validate returns the stored record for token. Expired tokens are deleted and reported
// as ExpiredRefreshTokenErr.
func (m *RefreshManager) Validate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, err
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, ExpiredRefreshTokenErr
	}
	return rt, nil
}

func (m *RefreshManager) IsExpired(rt *StoredRefreshToken) bool {
	return m.nowFunc().Sub(rt.Iat) > m.expiry
}

// RevokeUser deletes every refresh token issued to userID.
func (m *RefreshManager) RevokeUser(userID int64) (int, error) {
	return m.repo.DeleteByUserID(userID)
}
