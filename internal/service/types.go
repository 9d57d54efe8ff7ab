// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is a task priority. Unknown values are tolerated and rank lowest.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists the known priorities in ascending rank.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank returns the sort weight of p: urgent=4, high=3, medium=2, low=1, unknown=0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority parses a priority name (case-insensitive, trimmed).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p.Rank() == 0 {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}

// Default field values applied by the backend when a field is omitted.
const (
	DefaultCategory = "general"
	DefaultPriority = PriorityMedium
)

// Task represents a single task item.
type Task struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description,omitempty"`
	Category    string     `json:"category" yaml:"category"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	DueDate     *Date      `json:"due_date" yaml:"due_date,omitempty"`
	Tags        []string   `json:"tags" yaml:"tags,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   Timestamp  `json:"created_at" yaml:"created_at"`
	CompletedAt *Timestamp `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	UpdatedAt   *Timestamp `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Stats holds the server-side counters.
type Stats struct {
	TotalTasks     int     `json:"total_tasks" yaml:"total_tasks"`
	Pending        int     `json:"pending" yaml:"pending"`
	Completed      int     `json:"completed" yaml:"completed"`
	CompletionRate float64 `json:"completion_rate" yaml:"completion_rate"`
}

// TaskInput is the request body for creating a task.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	DueDate     *Date    `json:"due_date"`
	Tags        []string `json:"tags"`
}

// TaskUpdate is a partial update. Nil fields are left unchanged by the backend.
// ClearDue sends an explicit null due date when DueDate is nil.
type TaskUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	ClearDue    bool      `json:"-"`
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.Priority == nil && u.DueDate == nil && !u.ClearDue && u.Tags == nil && u.Completed == nil
}

func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	type plain TaskUpdate
	if !u.ClearDue || u.DueDate != nil {
		return json.Marshal(plain(u))
	}
	return json.Marshal(struct {
		plain
		DueDate *Date `json:"due_date"`
	}{plain: plain(u)})
}

// UnmarshalJSON reads an empty due_date string as no due date.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	t.DueDate = nil
	aux := struct {
		*plain
		DueDate json.RawMessage `json:"due_date"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	switch strings.TrimSpace(string(aux.DueDate)) {
	case "", "null", `""`:
		return nil
	}
	var d Date
	if err := json.Unmarshal(aux.DueDate, &d); err != nil {
		return err
	}
	t.DueDate = &d
	return nil
}

// ParseTags splits a comma-separated tag string, trimming entries and dropping empties.
// Always returns a non-nil slice so it encodes as [] rather than null.
func ParseTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// timestampLayouts are tried in order when decoding timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD date. A full timestamp is accepted and truncated.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", s)
	}
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Timestamp is a point in time. The backend may omit the zone; such values are read as UTC.
type Timestamp struct {
	time.Time
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %s", s)
}

// ParseTimestamp parses any of the timestamp forms the backend emits.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := parseTimestamp(strings.TrimSpace(s))
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{t}, nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.Format(time.RFC3339), nil
}
