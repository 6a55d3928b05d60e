package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":5055", cfg.HTTP.Address)
	require.Equal(t, 5, cfg.Manga.Limit)
	require.Equal(t, []string{"safe", "suggestive"}, cfg.Manga.ContentRatings)
	require.Equal(t, "mistral-tiny", cfg.LLM.Model)
	require.Equal(t, 25, cfg.Devices.LowBatteryPercent)
	require.Equal(t, FallbackBackendFile, cfg.Fallback.Backend)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
weather:
  defaultLocation: Osaka
  apiKey: from-file
devices:
  timeout: 2s
manga:
  limit: 8
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OPENWEATHER_API_KEY", "from-env")
	t.Setenv("MANGADEX_FEED_LIMIT", "3")
	t.Setenv("HTTP_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Osaka", cfg.Weather.DefaultLocation)
	require.Equal(t, "from-env", cfg.Weather.APIKey)
	require.Equal(t, 2*time.Second, cfg.Devices.Timeout)
	require.Equal(t, 3, cfg.Manga.Limit)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.CORSOrigins)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }},
		{name: "empty default location", mutate: func(c *Config) { c.Weather.DefaultLocation = " " }},
		{name: "token cache without addr", mutate: func(c *Config) { c.Manga.TokenCache.Enabled = true }},
		{name: "unknown fallback backend", mutate: func(c *Config) { c.Fallback.Backend = "ftp" }},
		{name: "s3 without bucket", mutate: func(c *Config) {
			c.Fallback.Backend = FallbackBackendS3
			c.Fallback.S3.Endpoint = "https://r2.example.com"
		}},
		{name: "battery threshold over 100", mutate: func(c *Config) { c.Devices.LowBatteryPercent = 101 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, defaultConfig().Validate())
}
