// Package cmd implements the taskboard CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/api"
	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

const logFileMode = 0o600

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagConfig  string
	flagAPIURL  string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "A terminal task board backed by a remote task API",
	Long: `taskboard shows the tasks of a remote task API as a three-column board
(To Do, In Progress, Done). Run without a subcommand to open the interactive
board, or use the subcommands to list and change tasks from scripts.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "task API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_, err := rootCmd.ExecuteContextC(ctx)
	cancel()
	if err == nil {
		return
	}

	// Handle SilentError: exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvOutput) == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// loadConfig loads the config file and applies the --api-url override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		next := *cfg
		next.API.BaseURL = flagAPIURL
		if err := next.Validate(); err != nil {
			return nil, clierr.Wrap(clierr.InvalidConfig, err, "--api-url")
		}
		*cfg = next
	}
	return cfg, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// setupLogging builds the logger described by cfg. The returned closer
// releases the log file.
func setupLogging(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	path := cfg.LogPath()
	if path == config.LogStderr {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(cfg.LogLevel()).With().Timestamp().Logger()
		return l, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd // standard dir permissions
		return zerolog.Nop(), nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // path from config
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	l := zerolog.New(f).Level(cfg.LogLevel()).With().Timestamp().Logger()
	return l, f, nil
}

// session bundles what a command needs to talk to the task API.
type session struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *store.Store
	logFile io.Closer

	// lastID is the task id of the most recent successful mutation.
	lastID int
}

// openSession loads the config, starts logging and builds a store for the
// configured API. Successful mutations are recorded in the activity log.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, closer, err := setupLogging(cfg)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: log, logFile: closer}
	s.store = store.New(newClient(cfg, log),
		store.WithLogger(log),
		store.WithOnMutate(func(action string, id int, detail string) {
			s.lastID = id
			board.LogMutation(cfg.ActivityPath(), action, id, detail)
		}),
	)
	return s, nil
}

func (s *session) Close() {
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}

// dispatcher returns a board dispatcher over the session store.
func (s *session) dispatcher() *board.Dispatcher {
	return board.NewDispatcher(s.store, s.log)
}

func newClient(cfg *config.Config, log zerolog.Logger) *api.Client {
	return api.New(cfg.API.BaseURL, cfg.TimeoutDuration(), api.WithLogger(log))
}

// commandContext returns the command's context, or Background when a
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
