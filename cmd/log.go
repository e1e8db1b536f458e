package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
)

const dateLayout = "2006-01-02"

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show activity log",
	Long:  `Displays the local log of mutations (create, move, delete) made by this client.`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().String("since", "", "show entries after this date (YYYY-MM-DD)")
	logCmd.Flags().Int("limit", 0, "maximum number of entries to show (most recent)")
	logCmd.Flags().String("action", "", "filter by action type (create, move, delete)")
	logCmd.Flags().Int("task", 0, "filter by task ID")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := board.LogFilterOptions{}

	if v, _ := cmd.Flags().GetString("since"); v != "" {
		d, parseErr := time.ParseInLocation(dateLayout, v, time.Local)
		if parseErr != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid --since date %q: expected YYYY-MM-DD", v).
				WithDetails(map[string]any{"since": v})
		}
		opts.Since = d
	}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		opts.Limit = v
	}
	if v, _ := cmd.Flags().GetString("action"); v != "" {
		opts.Action = v
	}
	if v, _ := cmd.Flags().GetInt("task"); v > 0 {
		opts.TaskID = v
	}

	entries, err := board.ReadLog(cfg.ActivityPath(), opts)
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		if entries == nil {
			entries = []board.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	}
	if format == output.FormatCompact {
		output.ActivityLogCompact(os.Stdout, os.Stderr, entries)
		return nil
	}

	output.ActivityLogTable(os.Stdout, os.Stderr, entries)
	return nil
}
