package config

import (
	"github.com/spf13/pflag"
)

const (
	FlagConfig     = "config"
	FlagEnvFile    = "env-file"
	FlagAPIURL     = "api-url"
	FlagDatabase   = "db"
	FlagTimeout    = "timeout"
	FlagAuthCookie = "auth-cookie"
	FlagProviders  = "providers"
	FlagLogLevel   = "log-level"
	defaultEnvFile = ".env"
)

// AddFlags registers the configuration flags on fs. Defaults shown in help
// are the built-in ones; only flags the user actually sets override the
// JSON file and the environment.
func AddFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
	fs.String(FlagEnvFile, defaultEnvFile, "dotenv file loaded into the environment")
	fs.StringP(FlagAPIURL, "a", d.APIBaseURL, "backend base URL")
	fs.String(FlagDatabase, d.DatabasePath, "local database file")
	fs.Duration(FlagTimeout, d.RequestTimeout, "timeout for each backend request")
	fs.String(FlagAuthCookie, d.AuthCookieName, "name of the backend session cookie")
	fs.StringSlice(FlagProviders, d.Providers, "credential providers in priority order")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
}

// applyFlags copies the flags explicitly set on fs into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(FlagAPIURL) {
		if cfg.APIBaseURL, err = fs.GetString(FlagAPIURL); err != nil {
			return err
		}
	}
	if fs.Changed(FlagDatabase) {
		if cfg.DatabasePath, err = fs.GetString(FlagDatabase); err != nil {
			return err
		}
	}
	if fs.Changed(FlagTimeout) {
		if cfg.RequestTimeout, err = fs.GetDuration(FlagTimeout); err != nil {
			return err
		}
	}
	if fs.Changed(FlagAuthCookie) {
		if cfg.AuthCookieName, err = fs.GetString(FlagAuthCookie); err != nil {
			return err
		}
	}
	if fs.Changed(FlagProviders) {
		if cfg.Providers, err = fs.GetStringSlice(FlagProviders); err != nil {
			return err
		}
	}
	if fs.Changed(FlagLogLevel) {
		if cfg.LogLevel, err = fs.GetString(FlagLogLevel); err != nil {
			return err
		}
	}
	return nil
}
