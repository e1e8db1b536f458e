package task

import (
	"strconv"
	"strings"

	"github.com/antopolskiy/taskboard/internal/clierr"
)

// ParseStatus converts user input into a Status. Matching is case-insensitive
// and accepts "-" or " " in place of "_" (so "in-progress" works).
func ParseStatus(input string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(input))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	s := Status(norm)
	if !s.Valid() {
		return "", ValidateStatus(input)
	}
	return s, nil
}

// ValidateStatus returns a CLIError for an unknown status.
func ValidateStatus(input string) *clierr.Error {
	allowed := make([]string, len(Statuses))
	for i, s := range Statuses {
		allowed[i] = string(s)
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", input).
		WithDetails(map[string]any{
			"status":  input,
			"allowed": allowed,
		})
}

// ValidateTitle trims title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", clierr.New(clierr.InvalidInput, "task title is required")
	}
	return trimmed, nil
}

// ParseID converts a decimal task ID.
func ParseID(input string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ValidateTaskID(input)
	}
	return id, nil
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateBoundaryError returns a CLIError for next/prev moves past either end.
func ValidateBoundaryError(id int, status Status, direction string) *clierr.Error {
	return clierr.Newf(clierr.BoundaryError,
		"task #%d is already at the %s status (%s)", id, direction, status).
		WithDetails(map[string]any{
			"id":        id,
			"status":    string(status),
			"direction": direction,
		})
}
