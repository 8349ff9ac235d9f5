package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the studyplan CLI.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
	// DefaultDailyMin seeds new week plans when no plan meta exists yet.
	DefaultDailyMin int `yaml:"default_daily_min"`
	// MaxChaptersPerDay bounds the day-budget planner.
	MaxChaptersPerDay int `yaml:"max_chapters_per_day"`
	// Verbose enables use-case logging to stderr.
	Verbose bool `yaml:"verbose"`
}

// Default returns a Config with sensible defaults. The database lives under
// ~/.studyplan.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return Config{
		DBPath:            filepath.Join(home, ".studyplan", "studyplan.db"),
		DefaultDailyMin:   120,
		MaxChaptersPerDay: 2,
	}, nil
}

// Load resolves configuration in three layers: defaults, then an optional
// YAML file, then environment variables. The file is ~/.studyplan/config.yaml
// unless STUDYPLAN_CONFIG points elsewhere; a missing file is not an error,
// an unreadable or malformed one is.
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	path := os.Getenv("STUDYPLAN_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(filepath.Dir(cfg.DBPath), "config.yaml")
	}
	if err := loadFile(&cfg, path, explicit); err != nil {
		return Config{}, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STUDYPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STUDYPLAN_DAILY_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultDailyMin = n
		}
	}
	if v := os.Getenv("STUDYPLAN_MAX_CHAPTERS_PER_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxChaptersPerDay = n
		}
	}
	if v := os.Getenv("STUDYPLAN_VERBOSE"); v != "" {
		cfg.Verbose, _ = strconv.ParseBool(v)
	}
}
