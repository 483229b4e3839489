package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 10*time.Second, cfg.API.ConnectTimeout())
	require.Equal(t, 10*time.Second, cfg.API.ReceiveTimeout())
	require.NotEmpty(t, cfg.API.BaseURL)
	require.NotEmpty(t, cfg.Store.Backend)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.test/api/v1")
	t.Setenv("API_CONNECT_TIMEOUT_SECONDS", "3")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("STUB_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://api.test/api/v1", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.ConnectTimeout())
	require.Equal(t, "redis", cfg.Store.Backend)
	require.Equal(t, "0.0.0.0:9090", cfg.Stub.Addr())
}

func TestTimeouts_FallBackWhenNonPositive(t *testing.T) {
	api := APIConfig{ConnectTimeoutSeconds: 0, ReceiveTimeoutSeconds: -1}
	require.Equal(t, 10*time.Second, api.ConnectTimeout())
	require.Equal(t, 10*time.Second, api.ReceiveTimeout())
}
