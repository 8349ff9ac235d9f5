package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Contains(t, cfg.DBPath, ".studyplan")
	assert.Equal(t, 120, cfg.DefaultDailyMin)
	assert.Equal(t, 2, cfg.MaxChaptersPerDay)
	assert.False(t, cfg.Verbose)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("db_path: /tmp/sp.db\ndefault_daily_min: 90\nverbose: true\n")
	require.NoError(t, os.WriteFile(path, data, 0644))
	t.Setenv("STUDYPLAN_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sp.db", cfg.DBPath)
	assert.Equal(t, 90, cfg.DefaultDailyMin)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 2, cfg.MaxChaptersPerDay)
	assert.True(t, cfg.Verbose)
}

// Environment variables win over both defaults and the config file.
func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_daily_min: 90\n"), 0644))
	t.Setenv("STUDYPLAN_CONFIG", path)
	t.Setenv("STUDYPLAN_DB", "/tmp/env.db")
	t.Setenv("STUDYPLAN_DAILY_MIN", "45")
	t.Setenv("STUDYPLAN_MAX_CHAPTERS_PER_DAY", "3")
	t.Setenv("STUDYPLAN_VERBOSE", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 45, cfg.DefaultDailyMin)
	assert.Equal(t, 3, cfg.MaxChaptersPerDay)
	assert.True(t, cfg.Verbose)
}

// Unparseable or non-positive numeric env values fall back to the defaults
// instead of poisoning the config.
func TestLoadInvalidEnvValuesIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	t.Setenv("STUDYPLAN_CONFIG", path)
	t.Setenv("STUDYPLAN_DAILY_MIN", "not-a-number")
	t.Setenv("STUDYPLAN_MAX_CHAPTERS_PER_DAY", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.DefaultDailyMin)
	assert.Equal(t, 2, cfg.MaxChaptersPerDay)
}

// An explicitly named config file that does not exist is an error, unlike
// the implicit default location.
func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("STUDYPLAN_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [not\n"), 0644))
	t.Setenv("STUDYPLAN_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}
