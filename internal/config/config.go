// Package config loads shule's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/shule/internal/util"
)

// Environment variables that override the file.
const (
	EnvAPIURL   = "SHULE_API_URL"
	EnvToken    = "SHULE_TOKEN"
	EnvSchoolID = "SHULE_SCHOOL_ID"
	EnvLogLevel = "SHULE_LOG_LEVEL"
)

// Defaults.
const (
	DefaultAPIURL       = "http://127.0.0.1:8000"
	DefaultTimeout      = "15s"
	DefaultLogLevel     = "info"
	DefaultTheme        = "auto"
	DefaultPollInterval = "5m"
	DefaultDebounce     = "500ms"
	DefaultCurrency     = "KES"
)

// Config represents the main configuration
type Config struct {
	APIURL     string           `toml:"api_url" json:"api_url"`
	Token      string           `toml:"token" json:"token"`
	SchoolID   string           `toml:"school_id" json:"school_id"`
	Timeout    string           `toml:"timeout" json:"timeout"`
	Theme      string           `toml:"theme" json:"theme"` // auto, dark, light, plain
	LogFile    string           `toml:"log_file" json:"log_file"`
	LogLevel   string           `toml:"log_level" json:"log_level"`
	SignalFile string           `toml:"signal_file" json:"signal_file"`
	Status     StatusConfig     `toml:"status" json:"status"`
	Onboarding OnboardingConfig `toml:"onboarding" json:"onboarding"`
}

// StatusConfig holds status poller settings
type StatusConfig struct {
	PollInterval string `toml:"poll_interval" json:"poll_interval"`
	Debounce     string `toml:"debounce" json:"debounce"`
}

// OnboardingConfig holds create-school form defaults
type OnboardingConfig struct {
	DefaultCurrency string `toml:"default_currency" json:"default_currency"`
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shule", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shule", "config.toml")
}

// StateDir returns the directory for logs and the refresh signal file.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "shule")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "shule")
}

// ExpandHome expands a leading ~ to the user's home directory.
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

// Default returns the default configuration with environment overrides
// applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(StateDir(), "shule.log")
	}
	if c.SignalFile == "" {
		c.SignalFile = filepath.Join(StateDir(), "refresh.signal")
	}
	if c.Status.PollInterval == "" {
		c.Status.PollInterval = DefaultPollInterval
	}
	if c.Status.Debounce == "" {
		c.Status.Debounce = DefaultDebounce
	}
	if c.Onboarding.DefaultCurrency == "" {
		c.Onboarding.DefaultCurrency = DefaultCurrency
	}
	c.LogFile = ExpandHome(c.LogFile)
	c.SignalFile = ExpandHome(c.SignalFile)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvSchoolID); v != "" {
		c.SchoolID = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q must be an http(s) URL", c.APIURL))
	}
	if c.SchoolID != "" {
		if _, err := uuid.Parse(c.SchoolID); err != nil {
			errs = append(errs, fmt.Errorf("school_id %q is not a UUID", c.SchoolID))
		}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q: %w", c.LogLevel, err))
	}
	switch c.Theme {
	case "auto", "dark", "light", "plain":
	default:
		errs = append(errs, fmt.Errorf("theme %q must be auto, dark, light or plain", c.Theme))
	}
	for name, v := range map[string]string{
		"timeout":              c.Timeout,
		"status.poll_interval": c.Status.PollInterval,
		"status.debounce":      c.Status.Debounce,
	} {
		if d, err := util.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s %q is not a positive duration", name, v))
		}
	}
	return errors.Join(errs...)
}

// RequestTimeout returns the parsed HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return durationOr(c.Timeout, 15*time.Second)
}

// Interval returns the parsed poll interval.
func (s StatusConfig) Interval() time.Duration {
	return durationOr(s.PollInterval, 5*time.Minute)
}

// DebounceWindow returns the parsed debounce window.
func (s StatusConfig) DebounceWindow() time.Duration {
	return durationOr(s.Debounce, 500*time.Millisecond)
}

func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := util.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Redacted returns a copy with the token masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Token = MaskToken(c.Token)
	return &out
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}

// CreateDefault creates a default config file at path, or at DefaultPath
// when path is empty.
func CreateDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg := &Config{}
	cfg.applyDefaults()
	if err := Print(cfg, f); err != nil {
		return "", err
	}

	return path, nil
}

// Print writes config to a writer in TOML format
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# shule configuration")
	fmt.Fprintf(w, "# Environment variables: %s, %s, %s, %s\n", EnvAPIURL, EnvToken, EnvSchoolID, EnvLogLevel)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# School API base URL")
	fmt.Fprintf(w, "api_url = %q\n", cfg.APIURL)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Bearer token and active school (defaults to the token's active_school_id)")
	if cfg.Token != "" {
		fmt.Fprintf(w, "token = %q\n", cfg.Token)
	} else {
		fmt.Fprintf(w, "# token = \"\"  # Or set %s\n", EnvToken)
	}
	if cfg.SchoolID != "" {
		fmt.Fprintf(w, "school_id = %q\n", cfg.SchoolID)
	} else {
		fmt.Fprintln(w, "# school_id = \"\"")
	}
	fmt.Fprintf(w, "timeout = %q\n", cfg.Timeout)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# auto, dark, light or plain")
	fmt.Fprintf(w, "theme = %q\n", cfg.Theme)
	fmt.Fprintf(w, "log_file = %q\n", cfg.LogFile)
	fmt.Fprintf(w, "log_level = %q\n", cfg.LogLevel)
	fmt.Fprintln(w, "# Touched by `shule refresh` to refresh running instances")
	fmt.Fprintf(w, "signal_file = %q\n", cfg.SignalFile)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[status]")
	fmt.Fprintf(w, "poll_interval = %q\n", cfg.Status.PollInterval)
	fmt.Fprintf(w, "debounce = %q\n", cfg.Status.Debounce)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[onboarding]")
	fmt.Fprintf(w, "default_currency = %q\n", cfg.Onboarding.DefaultCurrency)

	return nil
}
