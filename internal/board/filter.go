// Package board projects the task snapshot into status columns and turns
// board gestures into store operations.
package board

import (
	"slices"
	"strings"

	"github.com/antopolskiy/taskboard/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses []task.Status
	Search   string // case-insensitive substring match across title and description
	Limit    int
}

// Filter returns tasks matching all specified criteria (AND logic), in
// snapshot order.
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	result := []task.Task{}
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, t.Status) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}
