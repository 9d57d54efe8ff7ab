// Package board holds the client-side task snapshot and derives the filtered,
// sorted view shown to the user.
package board

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"tasktrack/internal/service"
)

// Status selects tasks by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus parses a status filter name. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("invalid status filter: %s", s)
	}
}

// Filter holds the three view controls.
type Filter struct {
	Status   Status
	Category string // exact match; empty matches any
	Search   string // case-insensitive substring of title or description
}

// Derive returns the tasks to display for f, sorted for display.
// It never modifies tasks.
func Derive(tasks []service.Task, f Filter) []service.Task {
	fold := cases.Fold()
	term := fold.String(f.Search)

	var out []service.Task
	for _, task := range tasks {
		switch f.Status {
		case StatusCompleted:
			if !task.Completed {
				continue
			}
		case StatusPending:
			if task.Completed {
				continue
			}
		}
		if f.Category != "" && task.Category != f.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(task.Title), term) &&
			!strings.Contains(fold.String(task.Description), term) {
			continue
		}
		out = append(out, task)
	}

	SortTasks(out)
	return out
}

// SortTasks orders tasks by priority descending; ties are broken by ascending
// due date when both tasks have one, otherwise by newest creation time.
// The sort is stable.
func SortTasks(tasks []service.Task) {
	slices.SortStableFunc(tasks, compareTasks)
}

func compareTasks(a, b service.Task) int {
	if diff := b.Priority.Rank() - a.Priority.Rank(); diff != 0 {
		return diff
	}
	if a.DueDate != nil && b.DueDate != nil {
		return a.DueDate.Compare(b.DueDate.Time)
	}
	return b.CreatedAt.Compare(a.CreatedAt.Time)
}

// Categories returns the distinct categories present in tasks, sorted.
func Categories(tasks []service.Task) []string {
	seen := make(map[string]bool)
	var out []string
	for _, task := range tasks {
		if task.Category == "" || seen[task.Category] {
			continue
		}
		seen[task.Category] = true
		out = append(out, task.Category)
	}
	sort.Strings(out)
	return out
}
