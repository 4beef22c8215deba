package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings for the tracker CLI.
//
// Fields:
//   - APIBaseURL: absolute URL of the backend, e.g. http://localhost:8080.
//   - DatabasePath: SQLite file holding the stored identity and cookies.
//   - RequestTimeout: per-call timeout for backend requests.
//   - AuthCookieName: name of the backend's session cookie.
//   - Providers: credential providers in priority order.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	DatabasePath   string        `env:"DATABASE_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	AuthCookieName string        `env:"AUTH_COOKIE"`
	Providers      []string      `env:"PROVIDERS" envSeparator:","`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.DatabasePath = "dsatracker.db"
	c.RequestTimeout = 10 * time.Second
	c.AuthCookieName = "jwt-token"
	c.Providers = []string{"storage", "cookie"}
	c.LogLevel = "warn"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute URL", c.APIBaseURL)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.AuthCookieName == "" {
		return fmt.Errorf("auth cookie name is required")
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one credential provider is required")
	}
	return nil
}

// Load builds a Config from defaults, then the JSON file, then .env and the
// environment, then the flags explicitly set on fs. Later sources take
// precedence over earlier ones. fs must carry the flags from AddFlags.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}

	envFile, err := fs.GetString(FlagEnvFile)
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
