package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	strongSecret := strings.Repeat("s", MinTokenSecretLen)

	t.Run("defaults for local development", func(t *testing.T) {
		t.Setenv("BILAN_ADDR", "")
		t.Setenv("BILAN_ENV", "")
		t.Setenv("BILAN_TOKEN_SECRET", "")
		t.Setenv("BILAN_POSTGRES_DSN", "")
		t.Setenv("BILAN_TOKEN_TTL_DAYS", "")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "development", cfg.Env)
		assert.True(t, cfg.TokenSecretIsDev)
		assert.GreaterOrEqual(t, len(cfg.TokenSecret), MinTokenSecretLen)
		assert.Empty(t, cfg.PostgresDSN)
		assert.Zero(t, cfg.TokenTTL)
	})

	t.Run("production without a secret refuses to start", func(t *testing.T) {
		t.Setenv("BILAN_ENV", "production")
		t.Setenv("BILAN_TOKEN_SECRET", "")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BILAN_TOKEN_SECRET")
	})

	t.Run("short secret is rejected in any environment", func(t *testing.T) {
		t.Setenv("BILAN_ENV", "development")
		t.Setenv("BILAN_TOKEN_SECRET", "too-short")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least")
	})

	t.Run("explicit values pass through", func(t *testing.T) {
		t.Setenv("BILAN_ADDR", ":9090")
		t.Setenv("BILAN_ENV", "production")
		t.Setenv("BILAN_TOKEN_SECRET", strongSecret)
		t.Setenv("BILAN_POSTGRES_DSN", "postgres://bilan@localhost/bilan")
		t.Setenv("BILAN_TOKEN_TTL_DAYS", "7")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, strongSecret, cfg.TokenSecret)
		assert.False(t, cfg.TokenSecretIsDev)
		assert.Equal(t, "postgres://bilan@localhost/bilan", cfg.PostgresDSN)
		assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	})

	t.Run("invalid ttl is rejected", func(t *testing.T) {
		t.Setenv("BILAN_TOKEN_SECRET", strongSecret)
		for _, raw := range []string{"zero", "0", "-3"} {
			t.Setenv("BILAN_TOKEN_TTL_DAYS", raw)
			_, err := FromEnv()
			assert.Error(t, err, raw)
		}
	})
}
