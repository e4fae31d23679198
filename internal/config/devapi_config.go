package config

import "time"

type DevAPIConfig interface {
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetSeedData() bool
}

// DevAPI configures the in-memory development API served by cmd/devapi.
type DevAPI struct {
	JWTSecret  string        `env:"DEVAPI_JWT_SECRET"  envDefault:"dev-secret-change-me"`
	AccessTTL  time.Duration `env:"DEVAPI_ACCESS_TTL"  envDefault:"5m"`
	RefreshTTL time.Duration `env:"DEVAPI_REFRESH_TTL" envDefault:"168h"`
	Seed       bool          `env:"DEVAPI_SEED"        envDefault:"true"`
}

var _ DevAPIConfig = DevAPI{}

func (d DevAPI) GetJWTSecret() string {
	return d.JWTSecret
}

func (d DevAPI) GetAccessTokenExpiry() time.Duration {
	if d.AccessTTL <= 0 {
		return 5 * time.Minute
	}
	return d.AccessTTL
}

func (d DevAPI) GetRefreshTokenExpiry() time.Duration {
	if d.RefreshTTL <= 0 {
		return 7 * 24 * time.Hour // 7 days
	}
	return d.RefreshTTL
}

func (d DevAPI) GetSeedData() bool {
	return d.Seed
}
