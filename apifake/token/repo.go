package token

import (
	"errors"
	"time"
)

var NotFoundErr = errors.New("not found")

// StoredRefreshToken is the server-side record of an issued refresh token. The client
// only ever sees Token.
type StoredRefreshToken struct {
	Token  string
	UserID int64
	Iat    time.Time
}

// Repo stores refresh tokens keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	DeleteByUserID(userID int64) (int, error)
}
