// Package config handles taskboard client configuration.
package config

// Default values for a new config.
var (
	DefaultBaseURL      = "http://localhost:8085"
	DefaultTimeout      = "5s"
	DefaultPollInterval = "0s"
	DefaultLogLevel     = "info"
	DefaultServerAddr   = ":8085"
	DefaultTitleLines   = 1
)

const (
	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// AppDir is the per-user directory name under the OS config and cache dirs.
	AppDir = "taskboard"

	// LogFileName is the default log file name inside the cache directory.
	LogFileName = "taskboard.log"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// LogStderr as log.file sends logs to stderr instead of a file.
	LogStderr = "-"

	maxTitleLines = 3
)

// Environment variables that override file values.
const (
	EnvConfig       = "TASKBOARD_CONFIG"
	EnvAPIURL       = "TASKBOARD_API_URL"
	EnvAPITimeout   = "TASKBOARD_API_TIMEOUT"
	EnvPollInterval = "TASKBOARD_POLL_INTERVAL"
	EnvLogLevel     = "TASKBOARD_LOG_LEVEL"
	EnvLogFile      = "TASKBOARD_LOG_FILE"
	EnvServerAddr   = "TASKBOARD_SERVER_ADDR"
)
