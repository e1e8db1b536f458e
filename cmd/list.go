package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Fetches the tasks from the task API and lists them with optional filtering.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().String("search", "", "case-insensitive search in title and description")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	rawStatuses, _ := cmd.Flags().GetStringSlice("status")
	search, _ := cmd.Flags().GetString("search")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := board.FilterOptions{Search: search, Limit: limit}
	for _, raw := range rawStatuses {
		s, err := task.ParseStatus(raw)
		if err != nil {
			return err
		}
		opts.Statuses = append(opts.Statuses, s)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.Refresh(commandContext(cmd)); err != nil {
		return err
	}
	tasks := board.Filter(s.store.Snapshot(), opts)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, os.Stderr, tasks)
	default:
		output.TaskTable(os.Stdout, os.Stderr, tasks)
	}
	return nil
}
