package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"taskflow/internal/engine"
	"taskflow/internal/service"
)

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrOutOfRange indicates a numeric reference past the end of the collection.
	ErrOutOfRange = errors.New("task number out of range")
)

// ResolveTaskRef finds the task named by ref in tasks.
//
// Resolution rules:
// 1. All digits and within 1..len(tasks) → the task at that position
// 2. Otherwise, a task whose id equals ref
// 3. All digits with no match → out of range; anything else → not found
//
// Positions count the whole collection, not the filtered view, so a ref
// printed by `list --status pending` stays valid under any filter.
func ResolveTaskRef(tasks []service.Task, ref string) (service.Task, error) {
	if ref == "" {
		return service.Task{}, ErrTaskRefRequired
	}

	numeric := isAllDigits(ref)
	if numeric {
		if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
			return tasks[n-1], nil
		}
	}

	for _, t := range tasks {
		if string(t.ID) == ref {
			return t, nil
		}
	}

	if numeric {
		return service.Task{}, fmt.Errorf("%w: %s", ErrOutOfRange, ref)
	}
	return service.Task{}, fmt.Errorf("%w: %s", engine.ErrTaskNotFound, ref)
}

// ResolveTaskRefs resolves every ref, failing on the first bad one.
// Duplicate refs collapse to one task.
func ResolveTaskRefs(tasks []service.Task, refs []string) ([]service.Task, error) {
	if len(refs) == 0 {
		return nil, ErrTaskRefRequired
	}
	seen := make(map[service.TaskID]bool, len(refs))
	result := make([]service.Task, 0, len(refs))
	for _, ref := range refs {
		t, err := ResolveTaskRef(tasks, ref)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
