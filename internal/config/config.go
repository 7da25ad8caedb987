// ABOUTME: Configuration loader for the myteams client
// ABOUTME: Loads settings from environment variables and an optional .env file

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environments recognised by MYTEAMS_ENV
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Token storage backends recognised by MYTEAMS_TOKEN_BACKEND
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const defaultAPIURL = "http://localhost:8000/v1"

type Config struct {
	APIURL       string
	Env          string // development, production (default: development)
	ConfigDir    string // where tokens and the TUI debug log live
	TokenBackend string // file, sqlite (default: file)

	HTTPTimeout time.Duration // MYTEAMS_HTTP_TIMEOUT seconds, default 30
	CacheTTL    time.Duration // MYTEAMS_CACHE_TTL seconds, default 30
	RateLimit   int           // outbound requests per second, default 10

	// Live fixture polling
	LivePollInterval time.Duration // MYTEAMS_LIVE_POLL seconds, default 30
}

// IsDevelopment reports whether dev-only features such as dev login are allowed
func (c *Config) IsDevelopment() bool {
	return c.Env != EnvProduction
}

// Load reads configuration from the environment.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		APIURL:           strings.TrimRight(getEnv("MYTEAMS_API_URL", defaultAPIURL), "/"),
		Env:              strings.ToLower(getEnv("MYTEAMS_ENV", EnvDevelopment)),
		ConfigDir:        getEnv("MYTEAMS_CONFIG_DIR", DefaultConfigDir()),
		TokenBackend:     strings.ToLower(getEnv("MYTEAMS_TOKEN_BACKEND", BackendFile)),
		HTTPTimeout:      time.Duration(getEnvInt("MYTEAMS_HTTP_TIMEOUT", 30)) * time.Second,
		CacheTTL:         time.Duration(getEnvInt("MYTEAMS_CACHE_TTL", 30)) * time.Second,
		RateLimit:        getEnvInt("MYTEAMS_RATE_LIMIT", 10),
		LivePollInterval: time.Duration(getEnvInt("MYTEAMS_LIVE_POLL", 30)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("MYTEAMS_API_URL is required")
	}
	if !strings.Contains(c.APIURL, "://") {
		return fmt.Errorf("MYTEAMS_API_URL must include a scheme, got %q", c.APIURL)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("MYTEAMS_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.TokenBackend != BackendFile && c.TokenBackend != BackendSQLite {
		return fmt.Errorf("MYTEAMS_TOKEN_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, c.TokenBackend)
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("cannot determine config directory, set MYTEAMS_CONFIG_DIR")
	}

	for _, v := range []struct {
		name  string
		value time.Duration
	}{
		{"MYTEAMS_HTTP_TIMEOUT", c.HTTPTimeout},
		{"MYTEAMS_CACHE_TTL", c.CacheTTL},
		{"MYTEAMS_LIVE_POLL", c.LivePollInterval},
	} {
		if v.value < time.Second || v.value > time.Hour {
			return fmt.Errorf("%s must be between 1 and 3600 seconds, got %d", v.name, int(v.value.Seconds()))
		}
	}
	if c.RateLimit < 1 || c.RateLimit > 1000 {
		return fmt.Errorf("MYTEAMS_RATE_LIMIT must be between 1 and 1000, got %d", c.RateLimit)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "myteams")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "myteams")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
