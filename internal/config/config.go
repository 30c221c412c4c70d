// Package config loads brewcue settings. Values come from, lowest to
// highest precedence: built-in defaults, the TOML config file, a .env file,
// the process environment, and finally CLI flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/brewcue/internal/logger"
)

// Environment variables that override file values.
const (
	EnvConfig     = "BREWCUE_CONFIG"
	EnvDB         = "BREWCUE_DB"
	EnvLogLevel   = "BREWCUE_LOG_LEVEL"
	EnvMuted      = "BREWCUE_MUTED"
	EnvAlertSound = "BREWCUE_ALERT_SOUND"
)

// VoiceConfig configures hands-free commands through local Whisper.
type VoiceConfig struct {
	Enabled    bool     `toml:"enabled"`
	WhisperBin string   `toml:"whisper_bin"`
	Model      string   `toml:"model"`
	RecordSecs int      `toml:"record_secs"`
	WakeWords  []string `toml:"wake_words"`
}

// Config holds all brewcue configuration.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	Muted        bool    `toml:"muted"`
	AlertSound   string  `toml:"alert_sound"` // WAV file; empty uses the built-in chime
	Volume       float64 `toml:"volume"`
	TerminalBell bool    `toml:"terminal_bell"`

	AlmostDone time.Duration `toml:"almost_done"` // 0 disables the "almost done" announcement
	IdleAfter  time.Duration `toml:"idle_after"`  // nudge after a brew sits paused this long

	Voice VoiceConfig `toml:"voice"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DBPath:       "~/.config/brewcue/brewcue.db",
		LogLevel:     "normal",
		LogFile:      "~/.config/brewcue/brewcue.log",
		Volume:       0.6,
		TerminalBell: true,
		AlmostDone:   10 * time.Second,
		IdleAfter:    2 * time.Minute,
		Voice: VoiceConfig{
			WhisperBin: "whisper-cli",
			Model:      "bin/ggml-small.bin",
			RecordSecs: 1,
		},
	}
}

// DefaultConfigPath returns the config file path, honouring BREWCUE_CONFIG.
func DefaultConfigPath() string {
	if v := os.Getenv(EnvConfig); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "brewcue", "config.toml")
}

// LoadFrom reads configuration from the given TOML file path on top of the
// defaults. A missing file is not an error. Environment variables always
// take precedence over file values.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env files into the environment. Missing files are
// skipped and variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvAlertSound); v != "" {
		cfg.AlertSound = v
	}
	if v := os.Getenv(EnvMuted); v != "" {
		muted, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMuted, err)
		}
		cfg.Muted = muted
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %.2f outside [0, 1]", c.Volume))
	}
	if c.AlmostDone < 0 || c.IdleAfter < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Voice.RecordSecs < 0 {
		errs = append(errs, errors.New("voice.record_secs must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Save writes cfg to the given TOML file path, creating parent directories
// as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
