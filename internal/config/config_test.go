package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/d-madiou/job-board-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JOBBOARD_API_URL", "")
	t.Setenv("PORT", "")

	c, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "DEV", c.GetEnv())
	require.True(t, c.IsDev())
	require.Equal(t, ":8000", c.GetPort())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, 5*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, "jobboard:", c.GetRedisPrefix())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("http://localhost:3000"))
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", ":9000")
	t.Setenv("JOBBOARD_API_URL", "https://jobs.example.com/api")
	t.Setenv("JOBBOARD_TIMEOUT", "3s")
	t.Setenv("JOBBOARD_SESSION_FILE", "/tmp/session.json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "PROD", c.GetEnv())
	require.False(t, c.IsDev())
	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "https://jobs.example.com/api", c.GetAPIBaseURL())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, "/tmp/session.json", c.GetSessionFile())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.False(t, c.GetAllowedOrigins().IsAllowedOrigin("http://localhost:3000"))
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOBBOARD_REDIS_ADDR=localhost:6379\n"), 0o600))
	t.Setenv("JOBBOARD_REDIS_ADDR", "")
	os.Unsetenv("JOBBOARD_REDIS_ADDR")

	c, err := config.Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", c.GetRedisAddr())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JOBBOARD_TIMEOUT", "soon")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "env.Parse")
}
