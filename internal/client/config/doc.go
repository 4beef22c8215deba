// Package config loads runtime configuration for the tracker CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. A dotenv file (--env-file, default .env) and the process environment,
//     every variable prefixed with DSA_. Variables already set in the
//     process win over the dotenv file.
//  4. Command-line flags explicitly set by the user.
//
// Supported flags
//
//	-c, --config string       JSON config file
//	    --env-file string     dotenv file (default ".env")
//	-a, --api-url string      backend base URL
//	    --db string           local database file
//	    --timeout duration    per-request timeout
//	    --auth-cookie string  backend session cookie name
//	    --providers strings   credential providers in priority order
//	    --log-level string    debug, info, warn, error
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080",
//	  "database_path": "dsatracker.db",
//	  "request_timeout": "10s",
//	  "auth_cookie_name": "jwt-token",
//	  "providers": ["storage", "cookie"],
//	  "log_level": "warn"
//	}
//
// # Environment
//
//	DSA_API_BASE_URL, DSA_DATABASE_PATH, DSA_REQUEST_TIMEOUT,
//	DSA_AUTH_COOKIE, DSA_PROVIDERS (comma separated), DSA_LOG_LEVEL
package config
