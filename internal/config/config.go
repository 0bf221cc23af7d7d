// Package config resolves where the tracker keeps its files and how it
// writes them. Values come from defaults, an optional punchclock.yaml and
// PUNCHCLOCK_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "PUNCHCLOCK"
	DefaultDataDir  = "~/.punchclock"
	defaultFileName = "punchclock"
)

// Config is the resolved tracker configuration. All paths are absolute or
// relative to the working directory after Load.
type Config struct {
	DataDir           string
	LegendFile        string
	SubcategoriesFile string
	LogDir            string
	StateDB           string
	LogFile           string
	LogLevel          string

	IncludeYear       bool
	WriteRetries      int
	RetryDelay        time.Duration
	HeartbeatInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("legend_file", "legend")
	v.SetDefault("subcategories_file", "subcategories")
	v.SetDefault("log_dir", ".")
	v.SetDefault("state_db", "state.db")
	v.SetDefault("log_file", "punchclock.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("log.include_year", false)
	v.SetDefault("log.write_retries", 2)
	v.SetDefault("log.retry_delay", "100ms")
	v.SetDefault("heartbeat_interval", "1m")
}

// Load reads configuration. configFile may be empty, in which case
// punchclock.yaml is looked up in the data dir and the working directory.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("expanding config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultFileName)
		if dir, err := homedir.Expand(v.GetString("data_dir")); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	dataDir, err := homedir.Expand(v.GetString("data_dir"))
	if err != nil {
		return Config{}, fmt.Errorf("expanding data_dir: %w", err)
	}

	cfg := Config{
		DataDir:           dataDir,
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		IncludeYear:       v.GetBool("log.include_year"),
		WriteRetries:      v.GetInt("log.write_retries"),
		RetryDelay:        v.GetDuration("log.retry_delay"),
		HeartbeatInterval: v.GetDuration("heartbeat_interval"),
	}

	paths := []struct {
		key string
		dst *string
	}{
		{"legend_file", &cfg.LegendFile},
		{"subcategories_file", &cfg.SubcategoriesFile},
		{"log_dir", &cfg.LogDir},
		{"state_db", &cfg.StateDB},
		{"log_file", &cfg.LogFile},
	}
	for _, p := range paths {
		resolved, err := resolvePath(dataDir, v.GetString(p.key))
		if err != nil {
			return Config{}, fmt.Errorf("expanding %s: %w", p.key, err)
		}
		*p.dst = resolved
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolvePath expands ~ and anchors relative paths at dataDir.
func resolvePath(dataDir, p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	return filepath.Join(dataDir, expanded), nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.WriteRetries < 0 {
		errs = append(errs, fmt.Errorf("log.write_retries must be >= 0, got %d", c.WriteRetries))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("log.retry_delay must be >= 0, got %s", c.RetryDelay))
	}
	if c.HeartbeatInterval <= 0 {
		errs = append(errs, fmt.Errorf("heartbeat_interval must be positive, got %s", c.HeartbeatInterval))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel returns the slog level for LogLevel, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log_level %q is not one of debug, info, warn, error", s)
}
