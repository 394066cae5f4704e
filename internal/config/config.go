package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Fetch modes for sheet retrieval.
const (
	FetchCSV     = "csv"
	FetchHTML    = "html"
	FetchBrowser = "browser"
)

// Config is the service configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Redis   RedisConfig   `toml:"redis"`
	Sources SourcesConfig `toml:"sources"`
	Refresh RefreshConfig `toml:"refresh"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	RESTPort    string   `toml:"rest_port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// RedisConfig contains fetched-text cache settings.
type RedisConfig struct {
	URL     string `toml:"url"`
	TTL     string `toml:"ttl"` // e.g. "5m"
	Enabled bool   `toml:"enabled"`
}

// SourcesConfig names where teams, rosters and game sheets come from.
// Values are URLs or local file paths.
type SourcesConfig struct {
	Teams              string  `toml:"teams"`
	Players            string  `toml:"players"`
	Games              string  `toml:"games"`
	BoxScoreIndex      string  `toml:"boxscore_index"`
	FetchMode          string  `toml:"fetch_mode"`
	RequestsPerSecond  float64 `toml:"requests_per_second"`
	MaxParallelFetches int     `toml:"max_parallel_fetches"`
	Timeout            string  `toml:"timeout"`
}

// RefreshConfig controls snapshot reloads.
type RefreshConfig struct {
	Interval   string `toml:"interval"`
	WatchFiles bool   `toml:"watch_files"`
	MaxRetries int    `toml:"max_retries"`
	RetryDelay string `toml:"retry_delay"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			RESTPort:    "8080",
			CORSOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			URL:     "redis://localhost:6379",
			TTL:     "5m",
			Enabled: false,
		},
		Sources: SourcesConfig{
			Teams:              "data/teams.json",
			Players:            "data/players.json",
			FetchMode:          FetchCSV,
			RequestsPerSecond:  5,
			MaxParallelFetches: 4,
			Timeout:            "15s",
		},
		Refresh: RefreshConfig{
			Interval:   "10m",
			WatchFiles: true,
			MaxRetries: 3,
			RetryDelay: "5s",
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// environment overrides. An empty path falls back to MYSTATS_CONFIG; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("MYSTATS_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.RESTPort = getEnv("REST_PORT", c.Server.RESTPort)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Sources.Teams = getEnv("TEAMS_SOURCE", c.Sources.Teams)
	c.Sources.Players = getEnv("PLAYERS_SOURCE", c.Sources.Players)
	c.Sources.Games = getEnv("GAMES_SOURCE", c.Sources.Games)
	c.Sources.BoxScoreIndex = getEnv("BOXSCORE_INDEX_SOURCE", c.Sources.BoxScoreIndex)
	c.Refresh.Interval = getEnv("REFRESH_INTERVAL", c.Refresh.Interval)
	c.Sources.FetchMode = strings.ToLower(strings.TrimSpace(c.Sources.FetchMode))
	if os.Getenv("REDIS_URL") != "" {
		c.Redis.Enabled = true
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.RESTPort)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid rest port %q", c.Server.RESTPort)
	}

	for name, d := range map[string]string{
		"redis ttl":     c.Redis.TTL,
		"fetch timeout": c.Sources.Timeout,
		"interval":      c.Refresh.Interval,
		"retry delay":   c.Refresh.RetryDelay,
	} {
		v, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, d, err)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %s", name, d)
		}
	}

	switch c.Sources.FetchMode {
	case FetchCSV, FetchHTML, FetchBrowser:
	default:
		return fmt.Errorf("invalid fetch mode %q", c.Sources.FetchMode)
	}

	if strings.TrimSpace(c.Sources.Teams) == "" || strings.TrimSpace(c.Sources.Players) == "" {
		return errors.New("teams and players sources are required")
	}
	if c.Sources.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive: %v", c.Sources.RequestsPerSecond)
	}
	if c.Sources.MaxParallelFetches <= 0 {
		return fmt.Errorf("max parallel fetches must be positive: %d", c.Sources.MaxParallelFetches)
	}
	if c.Refresh.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative: %d", c.Refresh.MaxRetries)
	}
	return nil
}

// RedisTTL returns the cache TTL as a duration.
func (c *Config) RedisTTL() time.Duration { return mustDuration(c.Redis.TTL) }

// FetchTimeout returns the per-request timeout.
func (c *Config) FetchTimeout() time.Duration { return mustDuration(c.Sources.Timeout) }

// RefreshInterval returns the time between scheduled reloads. Zero disables the ticker.
func (c *Config) RefreshInterval() time.Duration { return mustDuration(c.Refresh.Interval) }

// RetryDelay returns the delay between failed reload attempts.
func (c *Config) RetryDelay() time.Duration { return mustDuration(c.Refresh.RetryDelay) }

// mustDuration is only used on validated values.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
