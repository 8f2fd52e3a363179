package config

import (
	"testing"
	"time"

	"github.com/sangkips/pos-console/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3600", cfg.Backend.URL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, 32, cfg.Printer.Width)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://10.0.0.5:3600/")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "5")
	t.Setenv("PRINTER_TYPE", "USB")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local, http://b.local")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load(logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:3600", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "usb", cfg.Printer.Type)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadRejectsRelativeBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "localhost")

	_, err := Load(logging.Discard())
	assert.Error(t, err)
}
