package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/taskboard/internal/clierr"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents the taskboard client configuration.
type Config struct {
	Version     int          `yaml:"version"`
	API         APIConfig    `yaml:"api"`
	TUI         TUIConfig    `yaml:"tui"`
	Log         LogConfig    `yaml:"log"`
	Server      ServerConfig `yaml:"server"`
	ActivityDir string       `yaml:"activity_dir,omitempty"`

	// path is the file the config was loaded from (not serialized).
	path string `yaml:"-"`
}

// APIConfig holds remote task API settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// TUIConfig holds interactive board settings.
type TUIConfig struct {
	PollInterval string `yaml:"poll_interval,omitempty"`
	TitleLines   int    `yaml:"title_lines,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// ServerConfig holds settings for the development API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		TUI: TUIConfig{
			PollInterval: DefaultPollInterval,
			TitleLines:   DefaultTitleLines,
		},
		Log:    LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Path returns the file the config is read from and saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath sets the config file path.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: api.base_url %q: %w", ErrInvalid, c.API.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", ErrInvalid, c.API.BaseURL)
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return fmt.Errorf("%w: invalid api.timeout %q: %w", ErrInvalid, c.API.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive, got %s", ErrInvalid, d)
	}
	if c.TUI.PollInterval != "" {
		p, err := time.ParseDuration(c.TUI.PollInterval)
		if err != nil {
			return fmt.Errorf("%w: invalid tui.poll_interval %q: %w", ErrInvalid, c.TUI.PollInterval, err)
		}
		if p < 0 {
			return fmt.Errorf("%w: tui.poll_interval must be >= 0", ErrInvalid)
		}
	}
	if c.TUI.TitleLines < 1 || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be 1-%d, got %d", ErrInvalid, maxTitleLines, c.TUI.TitleLines)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: invalid log.level %q", ErrInvalid, c.Log.Level)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	return nil
}

// TimeoutDuration returns the per-request timeout. Falls back to the
// default when the value is unparseable.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// PollIntervalDuration returns the TUI auto-refresh interval, or 0 (disabled).
func (c *Config) PollIntervalDuration() time.Duration {
	if c.TUI.PollInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.TUI.PollInterval)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// TitleLines returns how many lines a card title may wrap to.
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines < 1 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// LogPath returns the log destination: a file path, or LogStderr.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(cacheDir(), LogFileName)
}

// ActivityPath returns the directory holding the local activity log.
func (c *Config) ActivityPath() string {
	if c.ActivityDir != "" {
		return c.ActivityDir
	}
	return cacheDir()
}

// Save writes the config to its config file, creating the directory.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("saving config: no path set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), dirMode); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(c.path, data, fileMode)
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides and validates the result. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, clierr.Wrap(clierr.InvalidConfig, err, "loading "+cfg.path)
	}
	return cfg, nil
}

// LoadFile reads the config file without environment overrides or
// validation. Used when the file itself is about to be edited.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.path = absPath

	data, err := os.ReadFile(absPath) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal over the defaults so omitted keys keep their default values.
	cfg.Version = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, clierr.Wrap(clierr.InvalidConfig, err, "parsing "+absPath)
	}
	if err := migrate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath resolves the config location: $TASKBOARD_CONFIG, else the
// per-user config directory.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, AppDir, ConfigFileName)
}

func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppDir)
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() error {
	c.API.BaseURL = getEnv(EnvAPIURL, c.API.BaseURL)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.File = getEnv(EnvLogFile, c.Log.File)
	c.Server.Addr = getEnv(EnvServerAddr, c.Server.Addr)

	timeout, err := getEnvDuration(EnvAPITimeout, c.API.Timeout)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	c.API.Timeout = timeout

	poll, err := getEnvDuration(EnvPollInterval, c.TUI.PollInterval)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	c.TUI.PollInterval = poll
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvDuration returns the env value after checking it parses; durations
// are kept as strings like the YAML form.
func getEnvDuration(key, fallback string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if _, err := time.ParseDuration(v); err != nil {
		return "", fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return v, nil
}

// settable maps each dotted key to its getter and setter.
var settable = map[string]struct {
	get func(*Config) string
	set func(*Config, string) error
}{
	"api.base_url": {
		func(c *Config) string { return c.API.BaseURL },
		func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.timeout": {
		func(c *Config) string { return c.API.Timeout },
		func(c *Config, v string) error { c.API.Timeout = v; return nil },
	},
	"tui.poll_interval": {
		func(c *Config) string { return c.TUI.PollInterval },
		func(c *Config, v string) error { c.TUI.PollInterval = v; return nil },
	},
	"tui.title_lines": {
		func(c *Config) string { return strconv.Itoa(c.TUI.TitleLines) },
		func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: tui.title_lines must be an integer", ErrInvalid)
			}
			c.TUI.TitleLines = n
			return nil
		},
	},
	"log.level": {
		func(c *Config) string { return c.Log.Level },
		func(c *Config, v string) error { c.Log.Level = v; return nil },
	},
	"log.file": {
		func(c *Config) string { return c.Log.File },
		func(c *Config, v string) error { c.Log.File = v; return nil },
	},
	"server.addr": {
		func(c *Config) string { return c.Server.Addr },
		func(c *Config, v string) error { c.Server.Addr = v; return nil },
	},
	"activity_dir": {
		func(c *Config) string { return c.ActivityDir },
		func(c *Config, v string) error { c.ActivityDir = v; return nil },
	},
}

// Keys returns the settable config keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted config key.
func (c *Config) Get(key string) (string, error) {
	acc, ok := settable[key]
	if !ok {
		return "", unknownKey(key)
	}
	return acc.get(c), nil
}

// Set assigns a dotted config key and validates the result. The config is
// left unchanged when validation fails.
func (c *Config) Set(key, value string) error {
	acc, ok := settable[key]
	if !ok {
		return unknownKey(key)
	}
	next := *c
	if err := acc.set(&next, value); err != nil {
		return clierr.Wrap(clierr.InvalidConfig, err, "setting "+key)
	}
	if err := next.Validate(); err != nil {
		return clierr.Wrap(clierr.InvalidConfig, err, "setting "+key)
	}
	*c = next
	return nil
}

func unknownKey(key string) *clierr.Error {
	return clierr.Newf(clierr.InvalidConfig, "unknown config key %q", key).
		WithDetails(map[string]any{"key": key, "allowed": Keys()})
}
