// Package config resolves runtime settings from defaults, an optional TOML
// file and SCANLAND_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/scanland/internal/timer"
	"github.com/alexanderramin/scanland/internal/transfer"
)

const (
	EnvDB     = "SCANLAND_DB"
	EnvConfig = "SCANLAND_CONFIG"
	EnvLog    = "SCANLAND_LOG"
	EnvTZ     = "SCANLAND_TZ"
)

// Config holds every runtime setting.
type Config struct {
	DBPath             string
	Pomodoro           timer.PomodoroConfig
	TickInterval       time.Duration
	Timezone           string
	ExportDir          string
	ExportNameTemplate string
	LogUseCases        bool
	LogFile            string
}

type fileConfig struct {
	DB                 string `toml:"db"`
	TickInterval       string `toml:"tick_interval"`
	Timezone           string `toml:"timezone"`
	ExportDir          string `toml:"export_dir"`
	ExportNameTemplate string `toml:"export_name_template"`
	LogUseCases        *bool  `toml:"log_use_cases"`
	LogFile            string `toml:"log_file"`
	Pomodoro           struct {
		Work           string `toml:"work"`
		ShortBreak     string `toml:"short_break"`
		LongBreak      string `toml:"long_break"`
		LongBreakEvery int    `toml:"long_break_every"`
	} `toml:"pomodoro"`
}

// Default returns the built-in settings. The store lives in
// ~/.scanland/scanland.db.
func Default() Config {
	dbPath := filepath.Join(".scanland", "scanland.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".scanland", "scanland.db")
	}
	return Config{
		DBPath:             dbPath,
		Pomodoro:           timer.DefaultPomodoroConfig(),
		TickInterval:       time.Second,
		ExportDir:          ".",
		ExportNameTemplate: transfer.DefaultNameTemplate,
	}
}

// DefaultPath is ~/.config/scanland/config.toml, or "" without a home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scanland", "config.toml")
}

// ResolvePath picks the config file: an explicit flag value, then
// SCANLAND_CONFIG, then DefaultPath. explicit reports whether the file was
// asked for and so must exist.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if v := os.Getenv(EnvConfig); v != "" {
		return v, true
	}
	return DefaultPath(), false
}

// Load builds the configuration. A missing file is only an error when
// explicit is set.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := applyFile(&cfg, path); err != nil {
				return cfg, err
			}
		} else if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fc.DB != "" {
		cfg.DBPath = expandHome(fc.DB)
	}
	if fc.Timezone != "" {
		cfg.Timezone = fc.Timezone
	}
	if fc.ExportDir != "" {
		cfg.ExportDir = expandHome(fc.ExportDir)
	}
	if fc.ExportNameTemplate != "" {
		cfg.ExportNameTemplate = fc.ExportNameTemplate
	}
	if fc.LogUseCases != nil {
		cfg.LogUseCases = *fc.LogUseCases
	}
	if fc.LogFile != "" {
		cfg.LogFile = expandHome(fc.LogFile)
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"tick_interval", fc.TickInterval, &cfg.TickInterval},
		{"pomodoro.work", fc.Pomodoro.Work, &cfg.Pomodoro.Work},
		{"pomodoro.short_break", fc.Pomodoro.ShortBreak, &cfg.Pomodoro.ShortBreak},
		{"pomodoro.long_break", fc.Pomodoro.LongBreak, &cfg.Pomodoro.LongBreak},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config %s: %s: %w", path, d.key, err)
		}
		*d.dst = v
	}
	if fc.Pomodoro.LongBreakEvery != 0 {
		cfg.Pomodoro.LongBreakEvery = fc.Pomodoro.LongBreakEvery
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = expandHome(v)
	}
	if v := os.Getenv(EnvTZ); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLog, err)
		}
		cfg.LogUseCases = b
	}
	return nil
}

// MinTickInterval is the finest display refresh accepted.
const MinTickInterval = time.Millisecond

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if c.TickInterval < MinTickInterval {
		return fmt.Errorf("tick_interval must be at least %s, got %s", MinTickInterval, c.TickInterval)
	}
	if err := c.Pomodoro.Validate(); err != nil {
		return fmt.Errorf("pomodoro: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
