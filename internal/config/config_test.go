package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BOARD_MODE", "DATABASE_URL", "BOARD_DB_PATH", "BOARD_LOCALE", "BOARD_IMAGE_DIR", "BOARD_POLICY_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_LocalDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "mixerboard.db", cfg.DBPath)
	assert.Equal(t, "ja", cfg.Locale)
	assert.Equal(t, "images", cfg.ImageDir)
	assert.False(t, cfg.Policy.RequireOneJoinPerDevice)
	assert.Zero(t, cfg.Policy.PerDeviceCreateQuota)
	assert.True(t, cfg.Policy.AllowImages)
}

func TestLoad_SharedDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOARD_MODE", "shared")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeShared, cfg.Mode)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.True(t, cfg.Policy.RequireOneJoinPerDevice)
	assert.Equal(t, 5, cfg.Policy.PerDeviceCreateQuota)
}

func TestLoad_InvalidMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOARD_MODE", "hybrid")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOARD_MODE", "shared")
	t.Setenv("DATABASE_URL", "not a url at all")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PolicyFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"require_one_join_per_device = true\nper_device_create_quota = 3\nallow_images = false\n",
	), 0o644))
	t.Setenv("BOARD_POLICY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Policy.RequireOneJoinPerDevice)
	assert.Equal(t, 3, cfg.Policy.PerDeviceCreateQuota)
	assert.False(t, cfg.Policy.AllowImages)
}

func TestLoad_PolicyFileNegativeQuota(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "policy.toml")
	require.NoError(t, os.WriteFile(path, []byte("per_device_create_quota = -1\n"), 0o644))
	t.Setenv("BOARD_POLICY_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
