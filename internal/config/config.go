// Package config handles the XDG configuration directory, the config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "tasktrack"

	// ConfigFile is the config filename inside the config directory.
	ConfigFile = "config.toml"

	// LogFile receives log output while the interactive board owns the terminal.
	LogFile = "board.log"

	// DefaultAPIURL is the backend base URL used when none is configured.
	DefaultAPIURL = "http://localhost:5000"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 5 * time.Second

	// DefaultStatsInterval is how often the board refreshes the counters.
	DefaultStatsInterval = 30 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	// LogToFile sends diagnostics to LogPath instead of stderr while a
	// full-screen command owns the terminal.
	LogToFile bool `toml:"-"`

	// APIURL is the backend base URL.
	APIURL string `toml:"api_url"`

	// Timeout bounds each API call.
	Timeout Duration `toml:"timeout"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// StatsInterval is the board's counter refresh period.
	StatsInterval Duration `toml:"stats_interval"`

	// StatsSchedule is the cron spec used by `stats --watch`. Empty derives
	// "@every <stats_interval>".
	StatsSchedule string `toml:"stats_schedule"`

	// TraceExporter selects where request spans go: none, stdout or otlp-http.
	TraceExporter string `toml:"trace_exporter"`
	TraceEndpoint string `toml:"trace_endpoint"`

	// DefaultStatus is the status filter used when --status is not given.
	DefaultStatus string `toml:"default_status"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// New creates a Config with defaults for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasktrack or $HOME/.config/tasktrack.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	setDefaults(cfg)
	return cfg, nil
}

// Load creates a Config and applies, in order, the config file in the
// directory and the environment. Flags are applied by the caller afterwards.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Timeout = Duration{DefaultTimeout}
	cfg.LogLevel = "warn"
	cfg.LogFormat = "text"
	cfg.StatsInterval = Duration{DefaultStatsInterval}
	cfg.TraceExporter = "none"
	cfg.DefaultStatus = "all"
}

// loadFile decodes config.toml if present. A missing file is not an error.
func (c *Config) loadFile() error {
	path := c.ConfigPath()
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key in %s: %s", path, undecoded[0])
	}
	return nil
}

// loadEnv overrides config from environment variables.
func (c *Config) loadEnv() error {
	if v := os.Getenv("TASKTRACK_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("TASKTRACK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TASKTRACK_TIMEOUT: %w", err)
		}
		c.Timeout = Duration{d}
	}
	if v := os.Getenv("TASKTRACK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TASKTRACK_TRACE"); v != "" {
		c.TraceExporter = v
	}
	if v := os.Getenv("TASKTRACK_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TASKTRACK_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks value ranges after all layers are applied.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api_url: %q (must start with http:// or https://)", c.APIURL)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.StatsInterval.Duration < time.Second {
		return fmt.Errorf("invalid stats_interval: %s (minimum 1s)", c.StatsInterval)
	}
	switch c.TraceExporter {
	case "", "none", "stdout", "otlp-http":
	default:
		return fmt.Errorf("invalid trace_exporter: %s (supported: none, stdout, otlp-http)", c.TraceExporter)
	}
	return nil
}

// Schedule returns the cron spec for periodic stats refresh.
func (c *Config) Schedule() string {
	if c.StatsSchedule != "" {
		return c.StatsSchedule
	}
	return "@every " + c.StatsInterval.String()
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the board log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// OpenLog opens the board log file for appending, creating the directory first.
func (c *Config) OpenLog() (*os.File, error) {
	if err := c.EnsureDir(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(c.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
