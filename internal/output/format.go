// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskflow/internal/engine"
	"taskflow/internal/service"
)

// Separator is the line printed under a filter header.
const Separator = "------------"

// FormatTask formats a task line.
// Format: "{N:>4}  [{x| }] {TEXT}  ({PRIORITY})\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", num, checkbox(task.Status), normalizeText(task.Text), task.Priority)
}

// FormatFilterHeader prints the active filter when it narrows the view.
// Nothing is printed for the all/all filter.
func FormatFilterHeader(w io.Writer, f engine.Filter) {
	var parts []string
	if f.Status != "" && f.Status != engine.All {
		parts = append(parts, "status="+string(f.Status))
	}
	if f.Priority != "" && f.Priority != engine.All {
		parts = append(parts, "priority="+string(f.Priority))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
	fmt.Fprintln(w, Separator)
}

func checkbox(s service.Status) string {
	if s == service.StatusCompleted {
		return "x"
	}
	return " "
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
