package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/justyntemme/vst3ui/pkg/framework/debug"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.RateHz != 30 {
		t.Errorf("Expected default rate 30, got %d", cfg.RateHz)
	}
	if cfg.GestureQueueSize != 256 {
		t.Errorf("Expected default gesture queue size 256, got %d", cfg.GestureQueueSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
	if cfg.Level() != debug.LogLevelInfo {
		t.Errorf("Expected info level, got %v", cfg.Level())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, cfg Config)
		wantErr error
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			check: func(t *testing.T, cfg Config) {
				if cfg != Default() {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name:  "overrides",
			input: "rate_hz = 60\ngesture_queue_size = 64\nlog_level = \"debug\"\nlog_prefix = \"synth\"\n",
			check: func(t *testing.T, cfg Config) {
				want := Config{RateHz: 60, GestureQueueSize: 64, LogLevel: "debug", LogPrefix: "synth"}
				if cfg != want {
					t.Errorf("Expected %+v, got %+v", want, cfg)
				}
			},
		},
		{
			name:    "zero rate",
			input:   "rate_hz = 0",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "rate too high",
			input:   "rate_hz = 5000",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "tiny queue",
			input:   "gesture_queue_size = 1",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "bad level",
			input:   "log_level = \"loud\"",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unknown key",
			input:   "refresh = 30",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse([]byte("rate_hz = ")); err == nil {
		t.Error("Expected syntax error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.toml")
	if err := os.WriteFile(path, []byte("rate_hz = 24\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RateHz != 24 {
		t.Errorf("Expected rate 24, got %d", cfg.RateHz)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "error"
	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if got := logger.Level(); got != debug.LogLevelError {
		t.Errorf("Expected error level, got %v", got)
	}
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "editor.log")
	input := "log_level = \"warn\"\nlog_prefix = \"synth\"\nlog_file = " + strconv.Quote(logPath) + "\n"

	cfg, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.LogFile != logPath {
		t.Fatalf("Expected log_file %q, got %q", logPath, cfg.LogFile)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("below level")
	logger.Warn("gesture queue full")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "[WARN] [synth]") || !strings.Contains(got, "gesture queue full") {
		t.Errorf("Expected warning in log file, got %q", got)
	}
	if strings.Contains(got, "below level") {
		t.Errorf("Info message should be filtered, got %q", got)
	}
}

func TestLogFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.LogFile = filepath.Join(blocker, "editor.log")
	if _, err := cfg.NewLogger(); err == nil {
		t.Error("Expected error when the log directory is a file")
	}
}
