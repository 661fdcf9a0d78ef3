package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MOSQUEE_DATABASE_URL", "file::memory:")
	t.Setenv("MOSQUEE_DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 5, cfg.DatabaseMaxOpenConns)
	require.Equal(t, 2, cfg.DatabaseMaxIdleConns)
	require.Empty(t, cfg.TrustedProxies)
	require.Equal(t, 10*time.Second, cfg.DatabaseConnMaxIdleTime)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "mosquee_sid", cfg.SessionCookie)
	require.Equal(t, 20, cfg.UploadMaxMB)
	require.Equal(t, 10, cfg.UploadMaxFiles)
	require.Equal(t, "local", cfg.StorageDriver)
	require.Equal(t, 5, cfg.LoginRateLimit)
	require.Equal(t, 15*time.Minute, cfg.LoginRateWindow)
	require.Equal(t, "fr", cfg.DefaultLanguage)
	require.Equal(t, ":3000", cfg.HTTPAddress())
	require.False(t, cfg.IsProduction())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("MOSQUEE_DATABASE_URL", "whatever")
	t.Setenv("MOSQUEE_DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("MOSQUEE_DATABASE_URL", "file::memory:")
	t.Setenv("MOSQUEE_DATABASE_DRIVER", "sqlite")
	t.Setenv("MOSQUEE_SESSION_TTL", "tomorrow")

	_, err := Load()
	require.Error(t, err)
}

func TestIsProductionAndAddress(t *testing.T) {
	cfg := Config{AppEnv: "Production", AppPort: ":8080"}
	require.True(t, cfg.IsProduction())
	require.Equal(t, ":8080", cfg.HTTPAddress())
}

func TestLoadMapsZeroIdleConnsAndParsesProxies(t *testing.T) {
	t.Setenv("MOSQUEE_DATABASE_URL", "file::memory:")
	t.Setenv("MOSQUEE_DATABASE_DRIVER", "sqlite")
	t.Setenv("MOSQUEE_DATABASE_MAX_IDLE_CONNS", "0")
	t.Setenv("MOSQUEE_TRUSTED_PROXIES", " 10.0.0.1, ,192.168.0.0/16 ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2, cfg.DatabaseMaxIdleConns)
	require.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}
