package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w, errw io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(errw, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	parts := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		parts = append(parts, string(c.Status)+"="+strconv.Itoa(c.Count))
	}
	line := strconv.Itoa(s.Total) + " tasks: " + strings.Join(parts, " ")
	if s.Unknown > 0 {
		line += " (" + strconv.Itoa(s.Unknown) + " unknown)"
	}
	fmt.Fprintln(w, line)
}

// ActivityLogCompact renders activity log entries in compact format.
func ActivityLogCompact(w, errw io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(errw, "No activity log entries found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s #%d %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Action, e.TaskID, e.Detail)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + string(t.Status) + "] " + t.Title
	if t.Description != "" {
		line += " - " + firstLine(t.Description)
	}
	return line
}
