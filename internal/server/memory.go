package server

import (
	"sync"

	"github.com/antopolskiy/taskboard/internal/task"
)

// Memory is an in-process task store with incrementing IDs.
type Memory struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
}

// NewMemory returns a store seeded with the given tasks. IDs continue
// after the largest seeded ID.
func NewMemory(seed ...task.Task) *Memory {
	m := &Memory{nextID: 1}
	for _, t := range seed {
		m.tasks = append(m.tasks, t)
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
	}
	return m
}

// List returns a copy of all tasks in insertion order.
func (m *Memory) List() []task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]task.Task{}, m.tasks...)
}

// Create stores a new task and returns it with its assigned ID.
func (m *Memory) Create(nt task.NewTask) task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := task.Task{
		ID:          m.nextID,
		Title:       nt.Title,
		Description: nt.Description,
		Status:      nt.Status,
	}
	m.nextID++
	m.tasks = append(m.tasks, t)
	return t
}

// Update replaces the task with t.ID and reports whether it existed.
func (m *Memory) Update(t task.Task) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			m.tasks[i] = t
			return true
		}
	}
	return false
}

// Delete removes the task with id and reports whether it existed.
func (m *Memory) Delete(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}
