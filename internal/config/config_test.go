package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so a developer's .env is not picked up.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api/v1", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.CacheTTL)
	assert.Equal(t, 200*time.Millisecond, cfg.LongPress)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, 3, cfg.Days)
	assert.False(t, cfg.Debug)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Empty(t, cfg.File)
}

func TestLoadFileAndEnv(t *testing.T) {
	chdir(t)
	dir := t.TempDir()
	yaml := "api_url: http://files.example:8080/api/v1\ndays: 5\ntimezone: UTC\nlong_press: 350ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("BLOCKYTIME_DAYS", "2")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://files.example:8080/api/v1", cfg.APIURL)
	assert.Equal(t, 2, cfg.Days, "env beats file")
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 350*time.Millisecond, cfg.LongPress)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
}

func TestLoadDotEnv(t *testing.T) {
	chdir(t)
	require.NoError(t, os.WriteFile(".env", []byte("BLOCKYTIME_TIMEOUT=3s\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BLOCKYTIME_TIMEOUT") })

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "BLOCKYTIME_CACHE_TTL", "soon"},
		{"too many days", "BLOCKYTIME_DAYS", "30"},
		{"zero days", "BLOCKYTIME_DAYS", "0"},
		{"unknown timezone", "BLOCKYTIME_TIMEZONE", "Mars/Olympus"},
		{"zero long press", "BLOCKYTIME_LONG_PRESS", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load(t.TempDir())
			require.Error(t, err)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	chdir(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Apply(Overrides{APIURL: "http://other:9000", Timezone: "UTC", Debug: true}))
	assert.Equal(t, "http://other:9000", cfg.APIURL)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.True(t, cfg.Debug)

	require.Error(t, cfg.Apply(Overrides{Timezone: "Nowhere/Land"}))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("local")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.config/blockytime")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/blockytime"), got)

	got, err = ExpandPath("/etc/blockytime")
	require.NoError(t, err)
	assert.Equal(t, "/etc/blockytime", got)
}
