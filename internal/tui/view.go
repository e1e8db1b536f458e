package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/antopolskiy/taskboard/internal/task"
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	dropTargetHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("214")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	carriedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("214")).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	detailLabelStyle = lipgloss.NewStyle().Bold(true).Width(14) //nolint:mnd // label column width

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewMove:
		return b.viewMoveDialog()
	case viewCreate:
		return b.viewCreateForm()
	case viewHelp:
		return b.viewHelp()
	default:
		return b.viewBoard()
	}
}

func (b *Board) viewBoard() string {
	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)
	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	const maxColWidth = 50
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", col.label, len(col.tasks)), width-headerPad)

	headerStyle := columnHeaderStyle
	switch {
	case b.carrying && colIdx == b.activeCol:
		headerStyle = dropTargetHeaderStyle
	case colIdx == b.activeCol:
		headerStyle = activeColumnHeaderStyle
	}
	header := headerStyle.Width(width).Render(headerText)

	maxVis := b.visibleCardsForColumn(&col)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+maxVis, len(col.tasks))

	parts := []string{header}
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}

	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for rowIdx := start; rowIdx < end; rowIdx++ {
		t := col.tasks[rowIdx]
		active := colIdx == b.activeCol && rowIdx == b.activeRow
		parts = append(parts, b.renderCard(t, active, width))
	}

	if end < len(col.tasks) {
		indicator := fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t task.Task, active bool, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	idStr := dimStyle.Render("#" + strconv.Itoa(t.ID))
	idLen := len(strconv.Itoa(t.ID)) + 1 // "#" + digits
	firstLineWidth := max(cardWidth-idLen-1, 1)

	var contentLines []string
	if b.opts.TitleLines == 1 {
		contentLines = append(contentLines, idStr+" "+truncate(t.Title, firstLineWidth))
	} else {
		wrapped := wrapTitle(t.Title, firstLineWidth, b.opts.TitleLines)
		contentLines = append(contentLines, idStr+" "+wrapped[0])
		padding := strings.Repeat(" ", idLen+1)
		for i := 1; i < len(wrapped); i++ {
			contentLines = append(contentLines, padding+wrapped[i])
		}
		for len(contentLines) < b.opts.TitleLines {
			contentLines = append(contentLines, "")
		}
	}

	desc := firstLine(t.Description)
	if desc == "" {
		desc = "--"
	}
	contentLines = append(contentLines, dimStyle.Render(truncate(desc, cardWidth)))

	style := cardStyle
	switch {
	case b.carrying && t.ID == b.carriedID:
		style = carriedCardStyle
	case active:
		style = activeCardStyle
	}
	return style.Width(width - 2).Render(strings.Join(contentLines, "\n")) //nolint:mnd // border width
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if len(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if current.Len()+1+len(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			// Last line takes the remaining words.
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	state := fmt.Sprintf("%d tasks", len(b.tasks))
	switch {
	case !b.src.Loaded() && b.err == nil:
		state = "loading..."
	case b.pending > 0:
		state += " | syncing..."
	}

	hints := "←↓↑→/hjkl:navigate space:pick up enter:detail m:move N/P:next/prev d:delete c:create r:refresh ?:help q:quit"
	if b.carrying {
		hints = fmt.Sprintf("carrying #%d  ←→/hl:choose column space:drop esc:cancel", b.carriedID)
	}
	status := truncate(fmt.Sprintf(" %s | %s | %s", b.opts.Title, state, hints), b.width)

	top := ""
	switch {
	case b.err != nil:
		top = errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
	case b.notice != "":
		top = noticeStyle.Render(truncate(b.notice, b.width))
	}
	return top + "\n" + statusBarStyle.Render(status)
}

func (b *Board) viewDetail() string {
	lines := detailLines(b.detailTask, b.width)

	viewHeight := b.height - 1
	if viewHeight < 1 {
		viewHeight = len(lines)
	}

	hint := "q/esc:back"
	if len(lines) > viewHeight {
		hint += "  j/k:scroll  g/G:top/bottom"
	}

	maxOff := max(len(lines)-viewHeight, 0)
	off := min(b.detailScrollOff, maxOff)
	end := min(off+viewHeight, len(lines))

	return strings.Join(lines[off:end], "\n") + "\n" + dimStyle.Render(hint)
}

func detailLines(t task.Task, width int) []string {
	titleLine := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Task #%d: %s", t.ID, t.Title))
	lines := []string{
		titleLine,
		strings.Repeat("─", lipgloss.Width(titleLine)),
		"",
		detailLabelStyle.Render("Status:") + "  " + t.Status.Label() + dimStyle.Render(" ("+string(t.Status)+")"),
	}
	if t.Description != "" {
		lines = append(lines, "")
		wrapped := lipgloss.NewStyle().Width(width).Render(t.Description)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

func (b *Board) viewMoveDialog() string {
	title := "Move task"
	t, ok := b.selectedTask()
	if ok {
		title = fmt.Sprintf("Move #%d to:", t.ID)
	}

	items := make([]string, 0, len(task.Statuses))
	for i, s := range task.Statuses {
		cursor := "  "
		if i == b.moveCursor {
			cursor = "> "
		}
		line := cursor + s.Label()
		if ok && s == t.Status {
			line += " (current)"
		}
		items = append(items, line)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" +
		strings.Join(items, "\n") + "\n\n" +
		dimStyle.Render("enter:select  esc:cancel")
	return dialogStyle.Render(content)
}

func (b *Board) viewCreateForm() string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Create task in To Do"),
		"",
		b.titleInput.View(),
		b.descInput.View(),
		"",
	}
	switch {
	case b.pending > 0:
		lines = append(lines, dimStyle.Render("Saving..."))
	case b.err != nil:
		lines = append(lines, errorStyle.Render("Error: "+b.err.Error()))
	}
	lines = append(lines, dimStyle.Render("tab:switch field  enter:create  esc:cancel"))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (b *Board) viewHelp() string {
	help := []struct{ key, desc string }{
		{"h/←", "Move to left column"},
		{"l/→", "Move to right column"},
		{"j/↓", "Move cursor down"},
		{"k/↑", "Move cursor up"},
		{"space", "Pick up card / drop it on the current column"},
		{"enter", "Show task detail"},
		{"m", "Move task (status picker)"},
		{"N", "Move task to next status"},
		{"P", "Move task to previous status"},
		{"d", "Delete task"},
		{"c", "Create task"},
		{"r", "Refresh board"},
		{"?", "Show this help"},
		{"esc/q", "Quit"},
		{"ctrl+c", "Force quit"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render("Keyboard Shortcuts"), ""}
	keyStyle := lipgloss.NewStyle().Bold(true).Width(12) //nolint:mnd // key column width
	for _, h := range help {
		lines = append(lines, keyStyle.Render(h.key)+"  "+h.desc)
	}
	lines = append(lines, "", dimStyle.Render("Press any key to close"))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
