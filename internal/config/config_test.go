package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUNCHCLOCK_DATA_DIR", dir)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "legend"), cfg.LegendFile)
	assert.Equal(t, filepath.Join(dir, "subcategories"), cfg.SubcategoriesFile)
	assert.Equal(t, dir, cfg.LogDir)
	assert.Equal(t, filepath.Join(dir, "state.db"), cfg.StateDB)
	assert.Equal(t, filepath.Join(dir, "punchclock.log"), cfg.LogFile)
	assert.False(t, cfg.IncludeYear)
	assert.Equal(t, 2, cfg.WriteRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, time.Minute, cfg.HeartbeatInterval)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_FileInDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUNCHCLOCK_DATA_DIR", dir)
	chdir(t, t.TempDir())

	yaml := "log_dir: weeks\nlog:\n  include_year: true\n  write_retries: 5\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "punchclock.yaml"), []byte(yaml), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "weeks"), cfg.LogDir)
	assert.True(t, cfg.IncludeYear)
	assert.Equal(t, 5, cfg.WriteRetries)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: "+dir+"\nlog:\n  write_retries: 5\n"), 0644))
	t.Setenv("PUNCHCLOCK_LOG_WRITE_RETRIES", "0")
	t.Setenv("PUNCHCLOCK_LOG_INCLUDE_YEAR", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.WriteRetries)
	assert.True(t, cfg.IncludeYear)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_AbsolutePathsKept(t *testing.T) {
	dir := t.TempDir()
	legend := filepath.Join(t.TempDir(), "my-legend")
	t.Setenv("PUNCHCLOCK_DATA_DIR", dir)
	t.Setenv("PUNCHCLOCK_LEGEND_FILE", legend)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, legend, cfg.LegendFile)
}

func TestLoad_TildeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("PUNCHCLOCK_DATA_DIR", "~/tracker")
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tracker"), cfg.DataDir)
}

func TestValidate(t *testing.T) {
	cfg := Config{WriteRetries: -1, RetryDelay: -time.Second, HeartbeatInterval: 0, LogLevel: "loud"}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"write_retries", "retry_delay", "heartbeat_interval", "log_level"} {
		assert.Contains(t, err.Error(), want)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
