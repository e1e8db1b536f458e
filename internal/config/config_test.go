package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/antopolskiy/taskboard/internal/clierr"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvAPIURL, EnvAPITimeout, EnvPollInterval, EnvLogLevel, EnvLogFile, EnvServerAddr} {
		t.Setenv(k, "")
	}
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.API.BaseURL != "http://localhost:8085" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8085")
	}
	if cfg.TimeoutDuration() != 5*time.Second {
		t.Errorf("TimeoutDuration() = %s, want 5s", cfg.TimeoutDuration())
	}
	if cfg.PollIntervalDuration() != 0 {
		t.Errorf("PollIntervalDuration() = %s, want 0", cfg.PollIntervalDuration())
	}
	if cfg.TitleLines() != DefaultTitleLines {
		t.Errorf("TitleLines() = %d, want %d", cfg.TitleLines(), DefaultTitleLines)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(_ *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 99 }, true},
		{"https url", func(c *Config) { c.API.BaseURL = "https://tasks.example.com" }, false},
		{"no scheme", func(c *Config) { c.API.BaseURL = "localhost:8085" }, true},
		{"ftp scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"empty url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = "0s" }, true},
		{"poll interval", func(c *Config) { c.TUI.PollInterval = "30s" }, false},
		{"empty poll interval", func(c *Config) { c.TUI.PollInterval = "" }, false},
		{"negative poll interval", func(c *Config) { c.TUI.PollInterval = "-1s" }, true},
		{"bad poll interval", func(c *Config) { c.TUI.PollInterval = "often" }, true},
		{"title_lines=3", func(c *Config) { c.TUI.TitleLines = 3 }, false},
		{"title_lines=0", func(c *Config) { c.TUI.TitleLines = 0 }, true},
		{"title_lines=4", func(c *Config) { c.TUI.TitleLines = 4 }, true},
		{"debug level", func(c *Config) { c.Log.Level = "debug" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"empty server addr", func(c *Config) { c.Server.Addr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nope", ConfigFileName)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", ConfigFileName)

	cfg := NewDefault()
	cfg.SetPath(path)
	cfg.API.BaseURL = "http://tasks.internal:9000"
	cfg.TUI.PollInterval = "15s"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.API.BaseURL != "http://tasks.internal:9000" {
		t.Errorf("loaded API.BaseURL = %q", loaded.API.BaseURL)
	}
	if loaded.PollIntervalDuration() != 15*time.Second {
		t.Errorf("loaded PollIntervalDuration() = %s, want 15s", loaded.PollIntervalDuration())
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := "api:\n  base_url: http://example.com:8085\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want migrated %d", cfg.Version, CurrentVersion)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("API.Timeout = %q, want default %q", cfg.API.Timeout, DefaultTimeout)
	}
	if cfg.API.BaseURL != "http://example.com:8085" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestLoadNewerVersion(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("version: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("api: [unclosed\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !clierr.HasCode(err, clierr.InvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://override:1234")
	t.Setenv(EnvAPITimeout, "2s")
	t.Setenv(EnvPollInterval, "1m")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://override:1234" {
		t.Errorf("API.BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.TimeoutDuration() != 2*time.Second {
		t.Errorf("TimeoutDuration() = %s, want 2s", cfg.TimeoutDuration())
	}
	if cfg.PollIntervalDuration() != time.Minute {
		t.Errorf("PollIntervalDuration() = %s, want 1m", cfg.PollIntervalDuration())
	}
	if cfg.LogLevel() != zerolog.DebugLevel {
		t.Errorf("LogLevel() = %s, want debug", cfg.LogLevel())
	}
}

func TestEnvOverrideInvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPITimeout, "forever")

	if _, err := Load(filepath.Join(t.TempDir(), ConfigFileName)); err == nil {
		t.Fatal("expected error for unparseable TASKBOARD_API_TIMEOUT")
	}
}

func TestLoadFileIgnoresEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://override:1234")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want file/default value", cfg.API.BaseURL)
	}
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/taskboard/config.yml")
	if got := DefaultPath(); got != "/etc/taskboard/config.yml" {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestGetSet(t *testing.T) {
	cfg := NewDefault()

	if err := cfg.Set("api.base_url", "http://other:8085"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := cfg.Get("api.base_url")
	if err != nil || got != "http://other:8085" {
		t.Errorf("Get(api.base_url) = %q, %v", got, err)
	}

	if err := cfg.Set("tui.title_lines", "2"); err != nil {
		t.Fatalf("Set(title_lines) error: %v", err)
	}
	if cfg.TitleLines() != 2 {
		t.Errorf("TitleLines() = %d, want 2", cfg.TitleLines())
	}
}

func TestSetRejectsInvalidValue(t *testing.T) {
	cfg := NewDefault()

	err := cfg.Set("api.timeout", "-3s")
	if !clierr.HasCode(err, clierr.InvalidConfig) {
		t.Fatalf("Set() error = %v, want INVALID_CONFIG", err)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("API.Timeout = %q, want unchanged %q", cfg.API.Timeout, DefaultTimeout)
	}

	if err := cfg.Set("tui.title_lines", "two"); err == nil {
		t.Error("expected error for non-integer title_lines")
	}
}

func TestUnknownKey(t *testing.T) {
	cfg := NewDefault()
	if _, err := cfg.Get("nope"); !clierr.HasCode(err, clierr.InvalidConfig) {
		t.Errorf("Get(nope) error = %v", err)
	}
	if err := cfg.Set("nope", "x"); !clierr.HasCode(err, clierr.InvalidConfig) {
		t.Errorf("Set(nope) error = %v", err)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("Keys() not sorted: %v", keys)
		}
	}
}

func TestLogAndActivityPaths(t *testing.T) {
	cfg := NewDefault()
	if filepath.Base(cfg.LogPath()) != LogFileName {
		t.Errorf("LogPath() = %q, want file named %s", cfg.LogPath(), LogFileName)
	}
	cfg.Log.File = LogStderr
	if cfg.LogPath() != LogStderr {
		t.Errorf("LogPath() = %q, want %q", cfg.LogPath(), LogStderr)
	}
	cfg.ActivityDir = "/tmp/activity"
	if cfg.ActivityPath() != "/tmp/activity" {
		t.Errorf("ActivityPath() = %q", cfg.ActivityPath())
	}
}
