package config

import (
	"os"
	"path/filepath"
	"time"
)

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
}

type SessionConfig interface {
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Client struct {
	APIURL  string        `env:"JOBBOARD_API_URL" envDefault:"http://localhost:8000/api"`
	Timeout time.Duration `env:"JOBBOARD_TIMEOUT" envDefault:"15s"`
}

var _ ClientConfig = Client{}

func (c Client) GetAPIBaseURL() string {
	return c.APIURL
}

func (c Client) GetRequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}

// Session selects where the CLI persists the session. Redis wins when an address is set.
type Session struct {
	File          string `env:"JOBBOARD_SESSION_FILE"`
	RedisAddr     string `env:"JOBBOARD_REDIS_ADDR"`
	RedisPassword string `env:"JOBBOARD_REDIS_PASSWORD"`
	RedisDB       int    `env:"JOBBOARD_REDIS_DB"     envDefault:"0"`
	RedisPrefix   string `env:"JOBBOARD_REDIS_PREFIX" envDefault:"jobboard:"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionFile() string {
	if s.File != "" {
		return s.File
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "jobboard", "session.json")
}

func (s Session) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Session) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Session) GetRedisDB() int {
	return s.RedisDB
}

func (s Session) GetRedisPrefix() string {
	return s.RedisPrefix
}
