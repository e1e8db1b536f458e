// Package tui implements the interactive terminal board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
	viewMove
	viewCreate
	viewHelp
)

// Key and layout constants.
const (
	keyEsc   = "esc"
	keyDown  = "down"
	keyUp    = "up"
	keyEnter = "enter"
	keySpace = " "

	boardChrome  = 3 // blank line, notice line and status bar below the columns
	maxScrollOff = 1<<31 - 1

	// errTTL is how long an error stays in the status bar.
	errTTL = 5 * time.Second
)

// Source is the snapshot the board renders and refreshes.
type Source interface {
	Snapshot() []task.Task
	Loaded() bool
	Refresh(ctx context.Context) error
}

// Options tunes the board.
type Options struct {
	TitleLines   int
	PollInterval time.Duration // 0 disables polling
	Title        string        // shown in the status bar
	Logger       zerolog.Logger
}

// Board is the top-level bubbletea model.
type Board struct {
	src      Source
	dispatch *board.Dispatcher
	opts     Options
	log      zerolog.Logger
	ctx      context.Context

	tasks     []task.Task
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int

	err     error
	errSeq  int
	notice  string
	pending int // mutations and refreshes in flight

	// Drag state: a card picked up with space and not yet dropped.
	carrying  bool
	payload   string
	carriedID int

	// Detail view.
	detailTask      task.Task
	detailScrollOff int

	// Move view.
	moveCursor int

	// Create form.
	titleInput textinput.Model
	descInput  textinput.Model
	focus      int
}

// column groups tasks belonging to a single status.
type column struct {
	status    task.Status
	label     string
	tasks     []task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a Board over src. Mutations go through dispatch.
func NewBoard(src Source, dispatch *board.Dispatcher, opts Options) *Board {
	if opts.TitleLines < 1 {
		opts.TitleLines = 1
	}
	if opts.Title == "" {
		opts.Title = "taskboard"
	}
	b := &Board{
		src:      src,
		dispatch: dispatch,
		opts:     opts,
		log:      opts.Logger,
		ctx:      context.Background(),
	}
	b.titleInput = newInput("Title", "What needs doing?")
	b.descInput = newInput("Description", "optional")
	b.loadSnapshot()
	return b
}

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt + ": "
	in.Placeholder = placeholder
	in.CharLimit = 200 //nolint:mnd // title/description cap in the form
	return in
}

// Init implements tea.Model. It starts the first refresh and, when
// configured, the poll loop.
func (b *Board) Init() tea.Cmd {
	cmds := []tea.Cmd{b.refreshCmd()}
	if b.opts.PollInterval > 0 {
		cmds = append(cmds, b.pollCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.clampRow()
		return b, nil
	case ReloadMsg:
		return b, b.refreshCmd()
	case pollMsg:
		return b, tea.Batch(b.refreshCmd(), b.pollCmd())
	case refreshedMsg:
		b.pending--
		b.loadSnapshot()
		if msg.err != nil {
			return b, b.setErr(msg.err)
		}
		return b, nil
	case mutatedMsg:
		return b, b.handleMutated(msg)
	case clearErrMsg:
		if msg.seq == b.errSeq {
			b.err = nil
		}
		return b, nil
	}

	if b.view == viewCreate {
		return b, b.updateInputs(msg)
	}
	return b, nil
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		return b.handleBoardKey(msg)
	case viewDetail:
		return b.handleDetailKey(msg)
	case viewMove:
		return b.handleMoveKey(msg)
	case viewCreate:
		return b.handleCreateKey(msg)
	case viewHelp:
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if b.carrying {
		return b.handleCarryKey(k)
	}

	switch k {
	case "q", keyEsc:
		return b, tea.Quit
	case "?":
		b.view = viewHelp
	case "h", "left", "l", "right", "j", keyDown, "k", keyUp:
		b.handleNavigation(k)
	case keyEnter:
		if t, ok := b.selectedTask(); ok {
			b.detailTask = t
			b.detailScrollOff = 0
			b.view = viewDetail
		}
	case keySpace:
		b.pickUp()
	case "m":
		b.handleMoveStart()
	case "N":
		return b, b.moveAdjacent(task.Status.Next, "next")
	case "P":
		return b, b.moveAdjacent(task.Status.Prev, "previous")
	case "d":
		if t, ok := b.selectedTask(); ok {
			return b, b.mutate("delete", func(ctx context.Context) error {
				return b.dispatch.Delete(ctx, t.ID)
			})
		}
	case "c":
		b.openCreate()
		return b, textinput.Blink
	case "r":
		return b, b.refreshCmd()
	}
	return b, nil
}

// handleCarryKey handles keys while a card is picked up: left/right choose
// the target column, space drops, esc cancels.
func (b *Board) handleCarryKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "h", "left", "l", "right":
		b.handleNavigation(k)
	case keySpace, keyEnter:
		payload, id := b.payload, b.carriedID
		target := b.columns[b.activeCol].status
		b.carrying = false
		b.payload = ""
		return b, b.dropCmd(id, payload, target)
	case keyEsc, "q":
		b.carrying = false
		b.payload = ""
	}
	return b, nil
}

func (b *Board) pickUp() {
	t, ok := b.selectedTask()
	if !ok {
		return
	}
	b.carrying = true
	b.carriedID = t.ID
	b.payload = b.dispatch.DragStart(t.ID)
}

func (b *Board) handleNavigation(k string) {
	switch k {
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", keyDown:
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", keyUp:
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	}
}

func (b *Board) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "backspace":
		b.view = viewBoard
		b.detailScrollOff = 0
	case "j", keyDown:
		b.detailScrollOff++
	case "k", keyUp:
		if b.detailScrollOff > 0 {
			b.detailScrollOff--
		}
	case "g":
		b.detailScrollOff = 0
	case "G":
		// viewDetail clamps it.
		b.detailScrollOff = maxScrollOff
	}
	return b, nil
}

func (b *Board) handleMoveStart() {
	t, ok := b.selectedTask()
	if !ok {
		return
	}
	b.moveCursor = max(t.Status.Index(), 0)
	b.view = viewMove
}

func (b *Board) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q":
		b.view = viewBoard
	case "j", keyDown:
		if b.moveCursor < len(task.Statuses)-1 {
			b.moveCursor++
		}
	case "k", keyUp:
		if b.moveCursor > 0 {
			b.moveCursor--
		}
	case keyEnter:
		b.view = viewBoard
		t, ok := b.selectedTask()
		target := task.Statuses[b.moveCursor]
		if !ok || t.Status == target {
			return b, nil
		}
		return b, b.dropCmd(t.ID, b.dispatch.DragStart(t.ID), target)
	}
	return b, nil
}

// moveAdjacent moves the selected task one column using step.
func (b *Board) moveAdjacent(step func(task.Status) (task.Status, bool), direction string) tea.Cmd {
	t, ok := b.selectedTask()
	if !ok {
		return nil
	}
	target, ok := step(t.Status)
	if !ok {
		return b.setErr(fmt.Errorf("task #%d is already at the %s status", t.ID, lastOrFirst(direction)))
	}
	return b.dropCmd(t.ID, b.dispatch.DragStart(t.ID), target)
}

// taskGoneError reports a drop of a task no longer in the snapshot.
type taskGoneError struct{ id int }

func (e taskGoneError) Error() string {
	return fmt.Sprintf("task #%d no longer exists", e.id)
}

// dropCmd drops the card for task id on target. A task that left the
// snapshot since it was picked up is reported instead of moved.
func (b *Board) dropCmd(id int, payload string, target task.Status) tea.Cmd {
	src := b.src
	return b.mutate("move", func(ctx context.Context) error {
		if _, ok := task.FindByID(src.Snapshot(), id); !ok {
			return taskGoneError{id: id}
		}
		return b.dispatch.Drop(ctx, payload, target)
	})
}

func lastOrFirst(direction string) string {
	if direction == "next" {
		return "last"
	}
	return "first"
}

// --- Create form ---

func (b *Board) openCreate() {
	b.view = viewCreate
	b.focus = 0
	b.titleInput.Focus()
	b.descInput.Blur()
}

func (b *Board) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		// Inputs survive cancel; only a successful create clears them.
		b.view = viewBoard
		b.titleInput.Blur()
		b.descInput.Blur()
		return b, nil
	case "tab", "shift+tab", keyDown, keyUp:
		b.focus = 1 - b.focus
		if b.focus == 0 {
			b.titleInput.Focus()
			b.descInput.Blur()
		} else {
			b.descInput.Focus()
			b.titleInput.Blur()
		}
		return b, textinput.Blink
	case keyEnter:
		title, desc := b.titleInput.Value(), b.descInput.Value()
		return b, b.mutate("create", func(ctx context.Context) error {
			return b.dispatch.Create(ctx, title, desc)
		})
	}
	return b, b.updateInputs(msg)
}

func (b *Board) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if b.focus == 0 {
		b.titleInput, cmd = b.titleInput.Update(msg)
	} else {
		b.descInput, cmd = b.descInput.Update(msg)
	}
	return cmd
}

func (b *Board) resetCreateForm() {
	b.titleInput.Reset()
	b.descInput.Reset()
	b.titleInput.Blur()
	b.descInput.Blur()
	b.focus = 0
}

// --- Commands and messages ---

// ReloadMsg asks the board to refresh from the remote, e.g. after the
// configuration changed.
type ReloadMsg struct{}

type refreshedMsg struct{ err error }

type mutatedMsg struct {
	action string
	err    error
}

type pollMsg struct{}

type clearErrMsg struct{ seq int }

func (b *Board) refreshCmd() tea.Cmd {
	b.pending++
	src, ctx := b.src, b.ctx
	return func() tea.Msg {
		return refreshedMsg{err: src.Refresh(ctx)}
	}
}

func (b *Board) pollCmd() tea.Cmd {
	return tea.Tick(b.opts.PollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// mutate runs fn off the update loop and reports the result as a
// mutatedMsg.
func (b *Board) mutate(action string, fn func(context.Context) error) tea.Cmd {
	b.pending++
	ctx := b.ctx
	return func() tea.Msg {
		return mutatedMsg{action: action, err: fn(ctx)}
	}
}

func (b *Board) handleMutated(msg mutatedMsg) tea.Cmd {
	b.pending--
	b.loadSnapshot()
	var gone taskGoneError
	if errors.As(msg.err, &gone) {
		b.err = nil
		b.notice = fmt.Sprintf("Task #%d no longer exists", gone.id)
		return nil
	}
	if msg.err != nil {
		b.notice = ""
		return b.setErr(msg.err)
	}

	b.err = nil
	switch msg.action {
	case "create":
		b.resetCreateForm()
		b.view = viewBoard
		b.notice = "Task created"
	case "move":
		b.notice = "Task moved"
	case "delete":
		b.notice = "Task deleted"
	}
	return nil
}

// setErr shows err in the status bar and schedules its removal.
func (b *Board) setErr(err error) tea.Cmd {
	b.err = err
	b.errSeq++
	seq := b.errSeq
	return tea.Tick(errTTL, func(time.Time) tea.Msg { return clearErrMsg{seq: seq} })
}

// --- Snapshot projection ---

// loadSnapshot rebuilds the columns from the current snapshot.
func (b *Board) loadSnapshot() {
	b.tasks = b.src.Snapshot()
	proj := board.Project(b.tasks)
	for _, t := range proj.Dropped {
		b.log.Debug().Int("id", t.ID).Str("status", string(t.Status)).Msg("task with unknown status not shown")
	}

	old := b.columns
	b.columns = make([]column, len(proj.Columns))
	for i, c := range proj.Columns {
		b.columns[i] = column{status: c.Status, label: c.Label, tasks: c.Tasks}
		if i < len(old) {
			b.columns[i].scrollOff = old[i].scrollOff
		}
	}
	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() (task.Task, bool) {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.tasks) {
		return task.Task{}, false
	}
	return col.tasks[b.activeRow], true
}

// cardHeight returns the height of a single card in lines:
// top border + title lines + 1 detail line + bottom border.
func (b *Board) cardHeight() int {
	return b.opts.TitleLines + 3 //nolint:mnd // borders(2) + detail line(1)
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for the "↑ N more" / "↓ N more" indicator lines.
func (b *Board) visibleCardsForColumn(col *column) int {
	budget := b.height - boardChrome
	if budget < 1 {
		return 1
	}

	avail := budget - 1 // column header
	if col.scrollOff > 0 {
		avail--
	}

	ch := b.cardHeight()
	n := max(avail/ch, 1)
	if col.scrollOff+n < len(col.tasks) {
		n = max((avail-1)/ch, 1)
	}
	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	maxVis := b.visibleCardsForColumn(col)
	if b.activeRow >= col.scrollOff+maxVis {
		col.scrollOff = b.activeRow - maxVis + 1
	}
	if b.activeRow < col.scrollOff {
		col.scrollOff = b.activeRow
	}
}
