// Package store keeps the local task snapshot in sync with the remote task
// API. Every mutation is followed by a full refresh; local state is only
// trusted after the server confirms it. A mutation reports an error only
// when the remote rejected it.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/antopolskiy/taskboard/internal/task"
)

// Remote is the task API the store reconciles against.
type Remote interface {
	List(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, nt task.NewTask) (task.Task, error)
	Update(ctx context.Context, t task.Task) error
	Delete(ctx context.Context, id int) error
}

// Store owns the task snapshot. Operations may run concurrently; the
// snapshot is replaced whole under a lock, and the last refresh response
// received wins.
type Store struct {
	mu       sync.RWMutex
	remote   Remote
	snapshot []task.Task
	loaded   bool

	log      zerolog.Logger
	onMutate func(action string, id int, detail string)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithOnMutate registers a callback fired after every mutation the remote
// accepted, before the follow-up refresh.
func WithOnMutate(fn func(action string, id int, detail string)) Option {
	return func(s *Store) { s.onMutate = fn }
}

// New creates a Store with an empty snapshot.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current task list.
func (s *Store) Snapshot() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Task(nil), s.snapshot...)
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// SetRemote swaps the API the store talks to. The snapshot is kept until
// the next refresh.
func (s *Store) SetRemote(r Remote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = r
}

func (s *Store) currentRemote() Remote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote
}

// Refresh replaces the snapshot with the remote task list. On failure the
// previous snapshot is left untouched.
func (s *Store) Refresh(ctx context.Context) error {
	tasks, err := s.currentRemote().List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("refresh failed, keeping previous snapshot")
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	fresh := append([]task.Task(nil), tasks...)

	s.mu.Lock()
	s.snapshot = fresh
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug().Int("tasks", len(fresh)).Msg("snapshot replaced")
	return nil
}

// Create adds a TODO task. A blank title is rejected before any request
// is sent; otherwise the title goes to the server as given.
func (s *Store) Create(ctx context.Context, title, description string) error {
	trimmed, err := task.ValidateTitle(title)
	if err != nil {
		s.log.Debug().Msg("create ignored: empty title")
		return err
	}

	nt := task.NewTask{Title: title, Description: description, Status: task.StatusTodo}
	created, err := s.currentRemote().Create(ctx, nt)
	if err != nil {
		return s.resync(ctx, fmt.Errorf("creating task %q: %w", trimmed, err))
	}
	s.mutated("create", created.ID, trimmed)
	s.settle(ctx)
	return nil
}

// MoveStatus sets the status of the task with id. An id missing from the
// snapshot is ignored: the task was deleted between render and drop.
func (s *Store) MoveStatus(ctx context.Context, id int, status task.Status) error {
	t, ok := task.FindByID(s.Snapshot(), id)
	if !ok {
		s.log.Debug().Int("id", id).Str("status", string(status)).Msg("move ignored: task not in snapshot")
		return nil
	}

	from := t.Status
	t.Status = status
	if err := s.currentRemote().Update(ctx, t); err != nil {
		return s.resync(ctx, fmt.Errorf("moving task #%d: %w", id, err))
	}
	s.mutated("move", id, string(from)+" -> "+string(status))
	s.settle(ctx)
	return nil
}

// Delete removes the task with id remotely, whether or not the snapshot
// holds it.
func (s *Store) Delete(ctx context.Context, id int) error {
	title := ""
	if t, ok := task.FindByID(s.Snapshot(), id); ok {
		title = t.Title
	}
	if err := s.currentRemote().Delete(ctx, id); err != nil {
		return s.resync(ctx, fmt.Errorf("deleting task #%d: %w", id, err))
	}
	s.mutated("delete", id, title)
	s.settle(ctx)
	return nil
}

// resync runs a corrective refresh after a failed mutation. The mutation
// error is returned; a refresh failure is only logged.
func (s *Store) resync(ctx context.Context, cause error) error {
	s.log.Warn().Err(cause).Msg("mutation failed, resyncing")
	if err := s.Refresh(ctx); err != nil {
		s.log.Debug().Err(err).Msg("corrective refresh failed")
	}
	return cause
}

// settle refreshes after a mutation the remote accepted. A refresh failure
// is only logged; the snapshot catches up on the next refresh.
func (s *Store) settle(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.log.Debug().Err(err).Msg("follow-up refresh failed, snapshot is stale")
	}
}

func (s *Store) mutated(action string, id int, detail string) {
	s.log.Info().Str("action", action).Int("id", id).Str("detail", detail).Msg("task mutated")
	if s.onMutate != nil {
		s.onMutate(action, id, detail)
	}
}
