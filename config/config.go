// Package config holds the launcher settings. Values are layered: defaults,
// then an optional YAML file, then BONEYARD_* environment variables, then
// command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Debug       bool    `yaml:"debug" env:"DEBUG"`
	Seed        uint64  `yaml:"seed" env:"SEED"`
	LogLevel    string  `yaml:"log_level" env:"LOG_LEVEL"`
	Level       string  `yaml:"level" env:"LEVEL"`
	WindowScale float64 `yaml:"window_scale" env:"WINDOW_SCALE"`
	PrefabDir   string  `yaml:"prefab_dir" env:"PREFAB_DIR"`
	Mute        bool    `yaml:"mute" env:"MUTE"`
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		Level:       "lvl1",
		WindowScale: 3,
		PrefabDir:   "prefabs",
	}
}

// Load applies the YAML file at path (if non-empty) and then the
// environment on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "BONEYARD_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Level == "" {
		return fmt.Errorf("%w: level is empty", ErrInvalidConfig)
	}
	if c.WindowScale <= 0 {
		return fmt.Errorf("%w: window scale must be positive, got %v", ErrInvalidConfig, c.WindowScale)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// SetupLogger configures the package-level charm logger. Debug mode forces
// debug level.
func (c Config) SetupLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	if c.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "boneyard",
		Level:           level,
	})
	log.SetDefault(logger)
	return logger
}
