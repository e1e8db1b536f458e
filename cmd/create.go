package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create TITLE",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long:    `Creates a task in the To Do column of the board.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCreate,
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "task description")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := task.ValidateTitle(args[0])
	if err != nil {
		return err
	}
	description, _ := cmd.Flags().GetString("description")

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.dispatcher().Create(commandContext(cmd), args[0], description); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.MutationResult{
			Action: "create",
			ID:     s.lastID,
			Title:  title,
			Status: string(task.StatusTodo),
			OK:     true,
		})
	}
	output.Messagef(os.Stdout, "Created task #%d: %s", s.lastID, title)
	return nil
}
