// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"tasktrack/internal/service"
)

// Empty-state placeholder shown when no task matches the filters.
const (
	EmptyTitle = "No tasks found"
	EmptyHint  = "Try changing your filters or add a new task"
)

// TimeLayout is the display format for timestamps.
const TimeLayout = "2006-01-02 15:04"

// RenderList writes the given (already derived) tasks, or the empty state.
func RenderList(w io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		FormatEmpty(w)
		return
	}
	for _, t := range tasks {
		FormatTask(w, NewTaskView(t))
	}
}

// FormatEmpty writes the empty-state placeholder.
func FormatEmpty(w io.Writer) {
	fmt.Fprintln(w, EmptyTitle)
	fmt.Fprintln(w, EmptyHint)
}

// FormatTask formats a task entry.
// Format: "{ID:>4}  {ICON} {TITLE}\n", then an indented description line
// (if any) and an indented meta line.
func FormatTask(w io.Writer, v TaskView) {
	fmt.Fprintf(w, "%4d  %s %s\n", v.ID, v.StatusIcon, v.Title)
	if v.Description != "" {
		fmt.Fprintf(w, "      %s\n", v.Description)
	}
	if meta := MetaLine(v); meta != "" {
		fmt.Fprintf(w, "      %s\n", meta)
	}
}

// MetaLine joins category, priority, due date and tags.
func MetaLine(v TaskView) string {
	var parts []string
	if v.Category != "" {
		parts = append(parts, v.CategoryIcon+" "+v.Category)
	}
	if v.Priority != "" {
		parts = append(parts, v.Priority)
	}
	if v.Due != "" {
		parts = append(parts, "due "+v.Due)
	}
	if len(v.Tags) > 0 {
		parts = append(parts, strings.Join(v.Tags, " "))
	}
	return strings.Join(parts, "  ")
}

// FormatTaskDetail writes every field of a task followed by its actions.
func FormatTaskDetail(w io.Writer, t service.Task) {
	v := NewTaskView(t)
	status := "pending"
	if t.Completed {
		status = "completed"
	}

	fmt.Fprintf(w, "#%d %s\n", v.ID, v.Title)
	detail(w, "Status", status)
	detail(w, "Description", v.Description)
	if v.Category != "" {
		detail(w, "Category", v.CategoryIcon+" "+v.Category)
	}
	detail(w, "Priority", v.Priority)
	detail(w, "Due", v.Due)
	detail(w, "Tags", strings.Join(v.Tags, " "))
	detail(w, "Created", t.CreatedAt.Format(TimeLayout))
	if t.CompletedAt != nil {
		detail(w, "Completed", t.CompletedAt.Format(TimeLayout))
	}
	if t.UpdatedAt != nil {
		detail(w, "Updated", t.UpdatedAt.Format(TimeLayout))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Actions:")
	for _, a := range v.Actions {
		fmt.Fprintf(w, "  %-22s %s\n", a.Command, a.Label)
	}
}

func detail(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-12s %s\n", label+":", value)
}

// CompletionPercent rounds a 0-100 completion rate to the nearest integer.
func CompletionPercent(rate float64) int {
	return int(math.Round(rate))
}

// FormatStats writes the four counters.
func FormatStats(w io.Writer, s service.Stats) {
	fmt.Fprintf(w, "Total:      %d\n", s.TotalTasks)
	fmt.Fprintf(w, "Pending:    %d\n", s.Pending)
	fmt.Fprintf(w, "Completed:  %d\n", s.Completed)
	fmt.Fprintf(w, "Completion: %d%%\n", CompletionPercent(s.CompletionRate))
}

// FormatCategories writes one category per line with its icon.
func FormatCategories(w io.Writer, categories []string) {
	for _, c := range categories {
		fmt.Fprintf(w, "%s %s\n", CategoryIcon(c), c)
	}
}
