package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

type staticSource struct {
	tasks     []task.Task
	refreshes int
	err       error
}

func (s *staticSource) Snapshot() []task.Task { return append([]task.Task(nil), s.tasks...) }
func (s *staticSource) Loaded() bool { return s.refreshes > 0 }
func (s *staticSource) Refresh(context.Context) error {
	s.refreshes++
	return s.err
}

func newInternalBoard(opts Options) (*Board, *staticSource) {
	src := &staticSource{tasks: []task.Task{{ID: 1, Title: "A", Status: task.StatusTodo}}}
	opts.Logger = zerolog.Nop()
	return NewBoard(src, board.NewDispatcher(nil, zerolog.Nop()), opts), src
}

func TestPollSchedulesRefreshAndNextTick(t *testing.T) {
	b, src := newInternalBoard(Options{PollInterval: time.Minute})

	_, cmd := b.Update(pollMsg{})
	if cmd == nil {
		t.Fatal("poll should return commands")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("poll cmd = %T, want batch of refresh and tick", cmd())
	}
	if msg := batch[0](); msg != (refreshedMsg{}) {
		t.Errorf("first command produced %#v, want refreshedMsg", msg)
	}
	if src.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", src.refreshes)
	}
}

func TestInitWithoutPolling(t *testing.T) {
	b, src := newInternalBoard(Options{})

	msg := b.Init()()
	if _, ok := msg.(refreshedMsg); !ok {
		t.Fatalf("Init produced %T, want refreshedMsg", msg)
	}
	if src.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", src.refreshes)
	}
}

func TestErrorClearsAfterTTL(t *testing.T) {
	b, _ := newInternalBoard(Options{})

	b.Update(refreshedMsg{err: errors.New("first")})
	firstSeq := b.errSeq
	b.Update(refreshedMsg{err: errors.New("second")})

	// A stale clear must not remove the newer error.
	b.Update(clearErrMsg{seq: firstSeq})
	if b.err == nil || b.err.Error() != "second" {
		t.Errorf("err = %v, want second", b.err)
	}
	b.Update(clearErrMsg{seq: b.errSeq})
	if b.err != nil {
		t.Errorf("err = %v, want nil", b.err)
	}
}

func TestDefaults(t *testing.T) {
	b, _ := newInternalBoard(Options{})
	if b.opts.TitleLines != 1 {
		t.Errorf("TitleLines = %d, want 1", b.opts.TitleLines)
	}
	if b.opts.Title != "taskboard" {
		t.Errorf("Title = %q, want taskboard", b.opts.Title)
	}
}

func TestCardHeightFollowsTitleLines(t *testing.T) {
	b, _ := newInternalBoard(Options{TitleLines: 3})
	if got := b.cardHeight(); got != 6 {
		t.Errorf("cardHeight() = %d, want 6", got)
	}
}
