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
	path := filepath.Join(t.TempDir(), "mystats.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.RESTPort)
	assert.Equal(t, FetchCSV, cfg.Sources.FetchMode)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[server]
rest_port = "9090"
cors_origins = ["https://stats.example.org"]

[sources]
teams = "https://sheets.example.org/teams.json"
players = "roster/players.json"
games = "https://sheets.example.org/games.csv"
fetch_mode = "HTML"
max_parallel_fetches = 8

[refresh]
interval = "1m"
retry_delay = "250ms"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.RESTPort)
	assert.Equal(t, []string{"https://stats.example.org"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "roster/players.json", cfg.Sources.Players)
	assert.Equal(t, FetchHTML, cfg.Sources.FetchMode)
	assert.Equal(t, 8, cfg.Sources.MaxParallelFetches)
	assert.Equal(t, 5.0, cfg.Sources.RequestsPerSecond, "unset keys keep defaults")
	assert.Equal(t, time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[server]\nrest_port = \"9090\"\n")
	t.Setenv("REST_PORT", "7070")
	t.Setenv("GAMES_SOURCE", "games.csv")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("REFRESH_INTERVAL", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.RESTPort)
	assert.Equal(t, "games.csv", cfg.Sources.Games)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval())
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "[server]\nrest_port = \"6060\"\n")
	t.Setenv("MYSTATS_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "6060", cfg.Server.RESTPort)
}

func TestLoad_BadTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\nrest_port = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.RESTPort = "http" }},
		{"port out of range", func(c *Config) { c.Server.RESTPort = "70000" }},
		{"bad ttl", func(c *Config) { c.Redis.TTL = "soon" }},
		{"negative interval", func(c *Config) { c.Refresh.Interval = "-1m" }},
		{"unknown fetch mode", func(c *Config) { c.Sources.FetchMode = "ftp" }},
		{"no teams source", func(c *Config) { c.Sources.Teams = " " }},
		{"zero rate", func(c *Config) { c.Sources.RequestsPerSecond = 0 }},
		{"zero parallelism", func(c *Config) { c.Sources.MaxParallelFetches = 0 }},
		{"negative retries", func(c *Config) { c.Refresh.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
