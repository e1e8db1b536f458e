package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
}

const maxTitle = 48

// TaskTable renders a list of tasks as a formatted table. An empty list
// prints a notice to errw instead.
func TaskTable(w, errw io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(errw, "No tasks found.")
		return
	}

	const pad = 2
	idW, statusW, titleW := 4, 8, 5
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, maxTitle+pad))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %s", idW, "ID", statusW, "STATUS", titleW, "TITLE", "DESCRIPTION")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		desc := t.Description
		if desc == "" {
			desc = dimStyle.Render("--")
		}
		fmt.Fprintf(w, "%-*d %-*s %-*s %s\n",
			idW, t.ID, statusW, t.Status, titleW, truncate(t.Title, maxTitle), firstLine(desc))
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, titleStyle.Render("Board"))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.Total)

	header := fmt.Sprintf("%-16s %-14s %6s", "STATUS", "COLUMN", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, c := range s.Columns {
		fmt.Fprintf(w, "%-16s %-14s %6d\n", c.Status, c.Label, c.Count)
	}
	if s.Unknown > 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d task(s) with unknown status hidden", s.Unknown)))
	}
}

// ActivityLogTable renders activity log entries as a table.
func ActivityLogTable(w, errw io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(errw, "No activity log entries found.")
		return
	}

	header := fmt.Sprintf("%-20s %-8s %-6s %s", "TIME", "ACTION", "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s %-8s %-6s %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Action, "#"+strconv.Itoa(e.TaskID), e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}
