package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID [STATUS]",
	Short: "Move a task to a different status",
	Long: `Changes the status of a task. Provide the new status directly
(TODO, IN_PROGRESS, DONE; case and dashes are ignored), or use --next/--prev
to move one column right or left.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to next status")
	moveCmd.Flags().Bool("prev", false, "move to previous status")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	var target task.Status
	switch {
	case len(args) == 2 && (next || prev):
		return clierr.New(clierr.InvalidInput, "provide a status or --next/--prev, not both")
	case next && prev:
		return clierr.New(clierr.InvalidInput, "cannot use --next and --prev together")
	case len(args) == 2:
		if target, err = task.ParseStatus(args[1]); err != nil {
			return err
		}
	case !next && !prev:
		return clierr.New(clierr.InvalidInput, "provide a target status or use --next/--prev")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	if err := s.store.Refresh(ctx); err != nil {
		return err
	}
	t, ok := task.FindByID(s.store.Snapshot(), id)
	if !ok {
		return task.NotFound(id)
	}

	if target == "" {
		target, err = adjacentStatus(t, next)
		if err != nil {
			return err
		}
	}

	if target == t.Status {
		return outputMoveResult(t, false)
	}
	if err := s.store.MoveStatus(ctx, id, target); err != nil {
		return err
	}
	t.Status = target
	return outputMoveResult(t, true)
}

// adjacentStatus returns the status one step forward or back from the
// task's current status.
func adjacentStatus(t task.Task, forward bool) (task.Status, error) {
	if forward {
		s, ok := t.Status.Next()
		if !ok {
			return "", task.ValidateBoundaryError(t.ID, t.Status, "last")
		}
		return s, nil
	}
	s, ok := t.Status.Prev()
	if !ok {
		return "", task.ValidateBoundaryError(t.ID, t.Status, "first")
	}
	return s, nil
}

func outputMoveResult(t task.Task, changed bool) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.MutationResult{
			Action: "move",
			ID:     t.ID,
			Title:  t.Title,
			Status: string(t.Status),
			OK:     true,
		})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task #%d is already in %s", t.ID, t.Status.Label())
		return nil
	}
	output.Messagef(os.Stdout, "Moved task #%d to %s", t.ID, t.Status.Label())
	return nil
}
