package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/d-madiou/job-board-client/users"
)

const accessTokenType = "access"

var InvalidAccessTokenErr = errors.New("invalid access token")

// Claims are the claims of an access token.
type Claims struct {
	TokenType string `json:"token_type"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// UserID is the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Creator issues and verifies access tokens.
type Creator struct {
	signer  Signer
	expiry  time.Duration
	issuer  string
	nowFunc func() time.Time
}

type CreatorOption func(*Creator)

func WithIssuer(issuer string) CreatorOption {
	return func(c *Creator) {
		c.issuer = issuer
	}
}

func WithCreatorNowTime(nowFunc func() time.Time) CreatorOption {
	return func(c *Creator) {
		c.nowFunc = nowFunc
	}
}

func NewCreator(signer Signer, expiry time.Duration, options ...CreatorOption) (*Creator, error) {
	if signer == nil {
		return nil, errors.New("[NewCreator] signer is required")
	}
	if expiry <= 0 {
		return nil, errors.New("[NewCreator] expiry must be positive")
	}
	c := &Creator{
		signer:  signer,
		expiry:  expiry,
		issuer:  "jobboard-devapi",
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// CreateAccessToken creates a signed access token for user.
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := c.nowFunc()
	claims := Claims{
		TokenType: accessTokenType,
		Email:     user.Email,
		Role:      string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
			ID:        uuid.New().String(),
		},
	}
	return c.signer.Sign(claims)
}

// ParseAccessToken verifies raw against the signer and the creator's clock.
func (c *Creator) ParseAccessToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, c.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowFunc),
	)
	if err != nil {
		return nil, errors.Wrap(InvalidAccessTokenErr, err.Error())
	}
	if claims.TokenType != accessTokenType {
		return nil, errors.Wrap(InvalidAccessTokenErr, "wrong token type")
	}
	return claims, nil
}
