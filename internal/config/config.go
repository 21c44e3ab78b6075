// Package config loads watcher settings from .env files, an optional YAML
// file and environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone data for minimal containers

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvPaths are tried in order; the first .env found is loaded.
var DefaultEnvPaths = []string{".env", "../.env", "../../.env"}

// Config holds every watcher setting.
type Config struct {
	PUBG          PUBGConfig          `yaml:"pubg"`
	Discord       DiscordConfig       `yaml:"discord"`
	Ledger        LedgerConfig        `yaml:"ledger"`
	Watcher       WatcherConfig       `yaml:"watcher"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PUBGConfig holds stats API settings and the roster.
type PUBGConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"` // empty uses the public API
	Shard        string        `yaml:"shard"`
	Players      []string      `yaml:"players"`
	ResolveDelay time.Duration `yaml:"resolve_delay"`
}

// DiscordConfig holds notifier settings.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	AssetPath  string `yaml:"asset_path"`
	Chart      bool   `yaml:"chart"`
}

// LedgerConfig selects the processed-match ledger backend.
type LedgerConfig struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
}

// WatcherConfig holds scheduler settings.
type WatcherConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	MatchLimit   int           `yaml:"match_limit"`
	Timezone     string        `yaml:"timezone"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"` // empty disables the metrics server
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // text|json
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		PUBG: PUBGConfig{
			Shard:        "steam",
			ResolveDelay: 1700 * time.Millisecond,
		},
		Discord: DiscordConfig{
			AssetPath: "battlegrounds.jpg",
		},
		Ledger: LedgerConfig{
			URL: "posted_matches.txt",
		},
		Watcher: WatcherConfig{
			PollInterval: 60 * time.Second,
			MatchLimit:   5,
			Timezone:     "Europe/Stockholm",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// LoadEnvFiles loads the first .env file found among paths and returns its
// path, or "" when none was found.
func LoadEnvFiles(paths ...string) string {
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads the YAML file at path, if any, over the defaults and then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PUBG_API_KEY"); v != "" {
		c.PUBG.APIKey = v
	}
	if v := os.Getenv("PUBG_BASE_URL"); v != "" {
		c.PUBG.BaseURL = v
	}
	if v := os.Getenv("PUBG_SHARD"); v != "" {
		c.PUBG.Shard = v
	}
	if v := os.Getenv("TRACKED_PLAYERS"); v != "" {
		c.PUBG.Players = SplitList(v)
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		c.Discord.WebhookURL = v
	}
	if v := os.Getenv("ASSET_PATH"); v != "" {
		c.Discord.AssetPath = v
	}
	if v := os.Getenv("NOTIFY_CHART"); v != "" {
		c.Discord.Chart = v == "true"
	}
	if v := os.Getenv("LEDGER_URL"); v != "" {
		c.Ledger.URL = v
	}
	if v := os.Getenv("LEDGER_AUTH_TOKEN"); v != "" {
		c.Ledger.AuthToken = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		c.Watcher.Timezone = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		c.Observability.MetricsAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Observability.LogFormat = v
	}

	var err error
	if c.Watcher.PollInterval, err = envDuration("POLL_INTERVAL", c.Watcher.PollInterval); err != nil {
		return err
	}
	if c.PUBG.ResolveDelay, err = envDuration("RESOLVE_DELAY", c.PUBG.ResolveDelay); err != nil {
		return err
	}
	if v := os.Getenv("MATCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MATCH_LIMIT value: %v", err)
		}
		c.Watcher.MatchLimit = n
	}
	return nil
}

// Validate reports the first setting the watcher cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.PUBG.APIKey == "":
		return errors.New("PUBG_API_KEY not set")
	case c.Discord.WebhookURL == "":
		return errors.New("DISCORD_WEBHOOK_URL not set")
	case len(c.PUBG.Players) == 0:
		return errors.New("no tracked players configured (TRACKED_PLAYERS)")
	case c.Watcher.PollInterval <= 0:
		return fmt.Errorf("poll interval must be positive, got %s", c.Watcher.PollInterval)
	case c.Watcher.MatchLimit <= 0:
		return fmt.Errorf("match limit must be positive, got %d", c.Watcher.MatchLimit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Watcher.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Watcher.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Watcher.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses the configured log level string into an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from the observability settings.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Observability.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// SplitList splits a comma separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %v", key, err)
	}
	return d, nil
}
