// Package config loads editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/justyntemme/vst3ui/pkg/editor/gesture"
	"github.com/justyntemme/vst3ui/pkg/editor/timer"
	"github.com/justyntemme/vst3ui/pkg/framework/debug"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// MaxRateHz bounds the dispatch frequency.
const MaxRateHz = 1000

// Config holds the editor settings.
type Config struct {
	// RateHz is the dispatch frequency of the UI timer.
	RateHz int `toml:"rate_hz"`
	// GestureQueueSize is the capacity of the gesture queue.
	GestureQueueSize int `toml:"gesture_queue_size"`
	// LogLevel is one of debug, info, warn, error, off.
	LogLevel string `toml:"log_level"`
	// LogPrefix tags every log line.
	LogPrefix string `toml:"log_prefix"`
	// LogFile, if set, receives log output instead of stderr.
	LogFile string `toml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RateHz:           timer.DefaultRateHz,
		GestureQueueSize: gesture.DefaultCapacity,
		LogLevel:         "info",
		LogPrefix:        "editor",
	}
}

// Load reads and validates the file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.RateHz <= 0 || c.RateHz > MaxRateHz {
		return fmt.Errorf("%w: rate_hz must be in [1, %d], got %d", ErrInvalidConfig, MaxRateHz, c.RateHz)
	}
	if c.GestureQueueSize < 2 {
		return fmt.Errorf("%w: gesture_queue_size must be at least 2, got %d", ErrInvalidConfig, c.GestureQueueSize)
	}
	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level. It assumes Validate passed.
func (c Config) Level() debug.LogLevel {
	level, _ := debug.ParseLevel(c.LogLevel)
	return level
}

// NewLogger builds a logger from the log settings. With LogFile set the
// logger appends to that file; close it with Logger.Close when done.
func (c Config) NewLogger() (*debug.Logger, error) {
	var l *debug.Logger
	if c.LogFile != "" {
		var err error
		if l, err = debug.NewFileLogger(c.LogFile, c.LogPrefix, debug.DefaultFlags); err != nil {
			return nil, fmt.Errorf("log_file: %w", err)
		}
	} else {
		l = debug.New(os.Stderr, c.LogPrefix, debug.DefaultFlags)
	}
	l.SetLevel(c.Level())
	return l, nil
}
