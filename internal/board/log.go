package board

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antopolskiy/taskboard/internal/filelock"
)

// LogFileName is the activity log file inside the activity directory.
const LogFileName = "activity.jsonl"

// lockFileName guards appends and truncation across processes.
const lockFileName = ".activity.lock"

// maxLogEntries caps the log; the oldest entries are dropped past it.
const maxLogEntries = 1000

// LogEntry is one mutation made by this client.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id"`
	Detail    string    `json:"detail"`
}

// LogFilterOptions selects entries from the activity log.
type LogFilterOptions struct {
	Since  time.Time
	Action string
	TaskID int
	Limit  int // newest N entries; 0 means all
}

// AppendLog appends entry to the activity log in dir, creating the
// directory and file as needed. Concurrent writers, in this process or
// another, are serialized by a lock file next to the log.
func AppendLog(dir string, entry LogEntry) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating activity dir: %w", err)
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding log entry: %w", err)
	}

	unlock, err := filelock.Lock(filepath.Join(dir, lockFileName))
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // path from config
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing activity log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing activity log: %w", err)
	}
	return truncateLog(path)
}

// LogMutation records a mutation. Errors are discarded because logging
// should never fail an operation.
func LogMutation(dir, action string, taskID int, detail string) {
	_ = AppendLog(dir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
	})
}

// ReadLog returns entries from the activity log in dir, oldest first. A
// missing log yields nil.
func ReadLog(dir string, opts LogFilterOptions) ([]LogEntry, error) {
	all, err := readEntries(filepath.Join(dir, LogFileName))
	if err != nil || all == nil {
		return nil, err
	}

	entries := []LogEntry{}
	for _, e := range all {
		if matchesLog(e, opts) {
			entries = append(entries, e)
		}
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}
	return entries, nil
}

func matchesLog(e LogEntry, opts LogFilterOptions) bool {
	if !opts.Since.IsZero() && e.Timestamp.Before(opts.Since) {
		return false
	}
	if opts.Action != "" && e.Action != opts.Action {
		return false
	}
	if opts.TaskID > 0 && e.TaskID != opts.TaskID {
		return false
	}
	return true
}

func readEntries(path string) ([]LogEntry, error) {
	f, err := os.Open(path) //nolint:gosec // path from config
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	entries := []LogEntry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // skip corrupt lines
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	return entries, nil
}

// truncateLog rewrites the log keeping only the newest maxLogEntries.
func truncateLog(path string) error {
	entries, err := readEntries(path)
	if err != nil || len(entries) <= maxLogEntries {
		return err
	}
	keep := entries[len(entries)-maxLogEntries:]

	tmp := path + ".tmp"
	f, err := os.Create(tmp) //nolint:gosec // path from config
	if err != nil {
		return fmt.Errorf("truncating activity log: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, e := range keep {
		line, _ := json.Marshal(e)
		_, _ = w.Write(append(line, '\n'))
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("truncating activity log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("truncating activity log: %w", err)
	}
	return os.Rename(tmp, path)
}
