package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_task_api/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEB_ORIGIN", "https://tasks.example")
	t.Setenv("ADMIN_EMAIL", "  Root@Example.COM ")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.InviteTTL)
	require.Equal(t, time.Duration(0), cfg.TokenTTL)
	require.Equal(t, []string{"https://tasks.example"}, cfg.CORSOrigins)
	require.Equal(t, "root@example.com", cfg.AdminEmail)
	require.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SMTP_HOST", "smtp.example")
	t.Setenv("APP_DEBUG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, "smtp.example", cfg.SMTP.Host)
	require.True(t, cfg.Debug)
}

func TestDSN(t *testing.T) {
	cfg := config.Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "tasks", DBPort: "5432"}
	require.Equal(t, "host=db user=u password=p dbname=tasks port=5432 sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "sqlite::memory:"
	require.Equal(t, "sqlite::memory:", cfg.DSN())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("INVITE_TTL", "tomorrow")

	_, err := config.Load()
	require.Error(t, err)
}
