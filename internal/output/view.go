package output

import (
	"strconv"
	"strings"

	"tasktrack/internal/service"
)

// DueLayout is the display format for due dates.
const DueLayout = "Jan 2, 2006"

// Action is one affordance offered on a task.
type Action struct {
	Name    string // toggle, edit, delete
	Label   string
	Command string
}

// TaskView is the display model of a single task.
type TaskView struct {
	ID           int64
	Title        string
	StatusIcon   string
	Description  string
	Category     string
	CategoryIcon string
	Priority     string
	Due          string
	Tags         []string
	Completed    bool
	Actions      []Action
}

// NewTaskView builds the display model for t.
func NewTaskView(t service.Task) TaskView {
	v := TaskView{
		ID:           t.ID,
		Title:        normalizeTitle(t.Title),
		StatusIcon:   StatusIcon(t.Completed),
		Description:  normalizeText(t.Description),
		Category:     t.Category,
		CategoryIcon: CategoryIcon(t.Category),
		Priority:     PriorityBadge(t.Priority),
		Completed:    t.Completed,
	}
	if t.DueDate != nil {
		v.Due = t.DueDate.Format(DueLayout)
	}
	for _, tag := range t.Tags {
		v.Tags = append(v.Tags, "#"+tag)
	}

	id := strconv.FormatInt(t.ID, 10)
	toggle := "Mark as complete"
	if t.Completed {
		toggle = "Mark as pending"
	}
	v.Actions = []Action{
		{Name: "toggle", Label: toggle, Command: "tasktrack toggle " + id},
		{Name: "edit", Label: "Edit", Command: "tasktrack edit " + id},
		{Name: "delete", Label: "Delete", Command: "tasktrack rm " + id},
	}
	return v
}

// StatusIcon returns the completion marker.
func StatusIcon(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

var categoryIcons = map[string]string{
	"general":   "📋",
	"work":      "💼",
	"personal":  "👤",
	"shopping":  "🛒",
	"health":    "💪",
	"finance":   "💰",
	"education": "📚",
	"study":     "📚",
	"home":      "🏠",
}

// CategoryIcon returns the icon for a category. Unknown categories get a pin.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[strings.ToLower(category)]; ok {
		return icon
	}
	return "📌"
}

// PriorityBadge returns the upper-cased priority, or "" when unset.
func PriorityBadge(p service.Priority) string {
	return strings.ToUpper(strings.TrimSpace(string(p)))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
