package board

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/antopolskiy/taskboard/internal/task"
)

// Mutator is the subset of the task store the dispatcher drives.
type Mutator interface {
	Create(ctx context.Context, title, description string) error
	MoveStatus(ctx context.Context, id int, status task.Status) error
	Delete(ctx context.Context, id int) error
}

// Dispatcher turns board gestures into store calls.
type Dispatcher struct {
	store Mutator
	log   zerolog.Logger
}

// NewDispatcher returns a Dispatcher over store.
func NewDispatcher(store Mutator, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{store: store, log: log}
}

// DragStart returns the transfer payload for the task being picked up.
func (d *Dispatcher) DragStart(id int) string {
	return strconv.Itoa(id)
}

// Drop moves the task named by payload into the status column. A payload
// that is empty or not an integer is ignored. Dropping a card on its own
// column still issues the move.
func (d *Dispatcher) Drop(ctx context.Context, payload string, status task.Status) error {
	raw := strings.TrimSpace(payload)
	if raw == "" {
		d.log.Debug().Str("status", string(status)).Msg("drop ignored: empty payload")
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		d.log.Debug().Str("payload", payload).Msg("drop ignored: payload is not a task id")
		return nil
	}
	return d.store.MoveStatus(ctx, id, status)
}

// Delete removes the task without asking for confirmation.
func (d *Dispatcher) Delete(ctx context.Context, id int) error {
	return d.store.Delete(ctx, id)
}

// Create submits the create form.
func (d *Dispatcher) Create(ctx context.Context, title, description string) error {
	return d.store.Create(ctx, title, description)
}
