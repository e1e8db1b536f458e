// Package task defines the task entity exchanged with the remote task API.
package task

// Status is the workflow state of a task. It decides the board column.
type Status string

// Known statuses, in board order.
const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every known status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Task is one unit of work. ID is assigned by the remote store.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// NewTask is the body of a create request; the server assigns the ID.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Index returns the board position of s, or -1 for an unknown status.
func (s Status) Index() int {
	for i, known := range Statuses {
		if s == known {
			return i
		}
	}
	return -1
}

// Label is the human-readable column heading for s.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Next returns the status after s and false when s is the last one.
func (s Status) Next() (Status, bool) {
	idx := s.Index()
	if idx < 0 || idx >= len(Statuses)-1 {
		return s, false
	}
	return Statuses[idx+1], true
}

// Prev returns the status before s and false when s is the first one.
func (s Status) Prev() (Status, bool) {
	idx := s.Index()
	if idx <= 0 {
		return s, false
	}
	return Statuses[idx-1], true
}
