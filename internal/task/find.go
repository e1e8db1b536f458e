package task

import (
	"github.com/antopolskiy/taskboard/internal/clierr"
)

// FindByID returns the task with the given ID and false when it is absent.
func FindByID(tasks []Task, id int) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// FindByTitle returns the first task whose title matches exactly.
func FindByTitle(tasks []Task, title string) (Task, bool) {
	for _, t := range tasks {
		if t.Title == title {
			return t, true
		}
	}
	return Task{}, false
}

// NotFound returns a CLIError for a task ID that is not on the board.
func NotFound(id int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}
