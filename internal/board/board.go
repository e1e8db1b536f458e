package board

import (
	"github.com/antopolskiy/taskboard/internal/task"
)

// Column is the ordered set of tasks sharing one status.
type Column struct {
	Status task.Status `json:"status"`
	Label  string      `json:"label"`
	Tasks  []task.Task `json:"tasks"`
}

// Board is the snapshot grouped into the fixed status columns.
type Board struct {
	Columns []Column `json:"columns"`
	// Dropped holds tasks whose status matches no column.
	Dropped []task.Task `json:"dropped,omitempty"`
}

// Project groups tasks into TODO, IN_PROGRESS and DONE columns, in that
// order. Tasks keep their snapshot order inside a column.
func Project(tasks []task.Task) Board {
	b := Board{Columns: make([]Column, len(task.Statuses))}
	for i, s := range task.Statuses {
		b.Columns[i] = Column{Status: s, Label: s.Label(), Tasks: []task.Task{}}
	}
	for _, t := range tasks {
		idx := t.Status.Index()
		if idx < 0 {
			b.Dropped = append(b.Dropped, t)
			continue
		}
		b.Columns[idx].Tasks = append(b.Columns[idx].Tasks, t)
	}
	return b
}

// ColumnSummary is one row of the board summary.
type ColumnSummary struct {
	Status task.Status `json:"status"`
	Label  string      `json:"label"`
	Count  int         `json:"count"`
}

// Overview holds aggregate board statistics.
type Overview struct {
	Total   int             `json:"total_tasks"`
	Columns []ColumnSummary `json:"columns"`
	Unknown int             `json:"unknown_status,omitempty"`
}

// Summary computes per-column counts for the board command.
func Summary(tasks []task.Task) Overview {
	b := Project(tasks)
	ov := Overview{Total: len(tasks), Unknown: len(b.Dropped)}
	for _, c := range b.Columns {
		ov.Columns = append(ov.Columns, ColumnSummary{Status: c.Status, Label: c.Label, Count: len(c.Tasks)})
	}
	return ov
}
