package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

func TestParseTokenTTL(t *testing.T) {
	cases := map[string]time.Duration{
		"":     services.DefaultTokenTTL,
		"7d":   7 * 24 * time.Hour,
		"12h":  12 * time.Hour,
		"3600": time.Hour,
	}
	for raw, want := range cases {
		got, err := ParseTokenTTL(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, bad := range []string{"0", "-1", "xd", "soon", "-5m"} {
		_, err := ParseTokenTTL(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadConfigSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_EXPIRE", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("LOG_MODE", "production")
	_, err := LoadConfig(logger.Nop())
	assert.Error(t, err)

	t.Setenv("LOG_MODE", "development")
	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, services.DefaultTokenTTL, cfg.TokenTTL)

	t.Setenv("JWT_SECRET_KEY", "legacy-name")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	cfg, err = LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "legacy-name", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
