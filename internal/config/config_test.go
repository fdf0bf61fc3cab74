package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/planora/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Planora", cfg.App.Name)
	assert.Equal(t, "MXN", cfg.Rates.BaseCurrency)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "postgres://postgres:@localhost:5432/planora?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_NAME", "events")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("BASE_CURRENCY", "usd")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "events", cfg.DB.Name)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "usd", cfg.Rates.BaseCurrency)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLocation_Invalid(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.Location()
	assert.Error(t, err)
}
