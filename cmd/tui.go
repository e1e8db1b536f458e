package cmd

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/tui"
	"github.com/antopolskiy/taskboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board UI",
	Long: `Launches the interactive terminal UI. Tasks are fetched from the task API
and shown in To Do, In Progress and Done columns. The board reconnects when
the config file changes and can poll the API for changes by other clients.

Navigate with arrow keys or vim-style h/j/k/l, press ? for help.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Duration("poll", 0, "refresh interval, 0 disables polling (overrides config)")
	rootCmd.AddCommand(tuiCmd)
}

// RunTUI launches the interactive TUI using the given config file, or the
// default location when configPath is empty.
func RunTUI(configPath string) error {
	if configPath != "" {
		flagConfig = configPath
	}
	return runTUI(nil, nil)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	poll, err := resolvePollInterval(cmd, s.cfg)
	if err != nil {
		return err
	}

	model := tui.NewBoard(s.store, s.dispatcher(), tui.Options{
		TitleLines:   s.cfg.TitleLines(),
		PollInterval: poll,
		Logger:       s.log,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	go startTUIWatcher(ctx, s, p)

	s.log.Info().Str("api", s.cfg.API.BaseURL).Msg("starting board")
	_, err = p.Run()
	return err
}

// resolvePollInterval returns the --poll flag when set, else the config value.
func resolvePollInterval(cmd *cobra.Command, cfg *config.Config) (time.Duration, error) {
	if cmd == nil || cmd.Flags().Lookup("poll") == nil || !cmd.Flags().Changed("poll") {
		return cfg.PollIntervalDuration(), nil
	}
	d, err := cmd.Flags().GetDuration("poll")
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, clierr.Newf(clierr.InvalidInput, "--poll must not be negative, got %s", d)
	}
	return d, nil
}

// reloadRemote re-reads the config and points the store at the configured
// API. A config that fails to load leaves the current client in place.
func reloadRemote(s *session) bool {
	cfg, err := loadConfig()
	if err != nil {
		s.log.Warn().Err(err).Msg("config reload failed, keeping current API client")
		return false
	}
	s.store.SetRemote(newClient(cfg, s.log))
	s.log.Info().Str("api", cfg.API.BaseURL).Msg("config reloaded")
	return true
}

func startTUIWatcher(ctx context.Context, s *session, p *tea.Program) {
	dir := filepath.Dir(s.cfg.Path())
	w, err := watcher.New([]string{dir}, func() {
		if reloadRemote(s) {
			p.Send(tui.ReloadMsg{})
		}
	}, watcher.OnlyFiles(filepath.Base(s.cfg.Path())), watcher.WithLogger(s.log))
	if err != nil {
		// Non-fatal: the board works without live reload.
		s.log.Debug().Err(err).Str("dir", dir).Msg("config watcher disabled")
		return
	}
	defer w.Close()
	w.Run(ctx, nil)
}
