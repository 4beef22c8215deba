package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays present fields", func(t *testing.T) {
		path := writeTempJSON(t, dir, "full.json", map[string]any{
			"api_base_url":     "https://api.example",
			"request_timeout":  float64(3 * time.Second),
			"auth_cookie_name": "sid",
			"providers":        []string{"cookie"},
		})

		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, path))

		assert.Equal(t, "https://api.example", cfg.APIBaseURL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "sid", cfg.AuthCookieName)
		assert.Equal(t, []string{"cookie"}, cfg.Providers)
		assert.Equal(t, "dsatracker.db", cfg.DatabasePath, "absent fields keep their value")
	})

	t.Run("empty path → no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, ""))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := defaults()
		require.Error(t, parseJSON(&cfg, bad))
	})
}
