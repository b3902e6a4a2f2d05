package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 720*time.Hour, cfg.VoteGuardTTL)
	assert.False(t, cfg.StrictTransitions)
}

func TestLoadEnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7000\nDB_DRIVER=sqlite\nSTRICT_TRANSITIONS=true\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.True(t, cfg.StrictTransitions)
}
