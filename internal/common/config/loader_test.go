package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://dn.example.org/
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://dn.example.org", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.GetTimeout())
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.GetTTL())
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "@every 30s", cfg.Watch.Schedule)
	assert.Equal(t, "dnctl/0.1.0", cfg.API.UserAgent)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://dn.example.org
cache:
  backend: memory
`)
	t.Setenv("DN_API_BASE_URL", "http://localhost:8000")
	t.Setenv("DN_CACHE_BACKEND", "redis")
	t.Setenv("DN_CACHE_REDIS_ADDRESS", "127.0.0.1:6380")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "127.0.0.1:6380", cfg.Cache.Redis.Address)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("DN_TEST_REDIS_PASSWORD", "s3cret")
	path := writeConfig(t, `
api:
  base_url: https://dn.example.org
cache:
  redis:
    password: ${DN_TEST_REDIS_PASSWORD}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Cache.Redis.Password)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing base url",
			body: "logging:\n  level: info\n",
			want: "api.base_url is required",
		},
		{
			name: "relative base url",
			body: "api:\n  base_url: /api\n",
			want: "absolute http(s) URL",
		},
		{
			name: "unknown cache backend",
			body: "api:\n  base_url: https://x.example\ncache:\n  backend: memcached\n",
			want: "unknown cache.backend",
		},
		{
			name: "bad timezone",
			body: "api:\n  base_url: https://x.example\ndisplay:\n  timezone: Mars/Olympus\n",
			want: "display.timezone",
		},
		{
			name: "negative rate",
			body: "api:\n  base_url: https://x.example\n  requests_per_second: -1\n",
			want: "requests_per_second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_Timezone(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://dn.example.org
display:
  timezone: Europe/Athens
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Athens", cfg.Location().String())
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
