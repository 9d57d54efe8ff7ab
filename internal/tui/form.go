package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasktrack/internal/service"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldPriority
	fieldDue
	fieldTags
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Category", "Priority", "Due", "Tags"}

// taskForm is the add/edit modal. editID is 0 when adding.
// keepPriority holds an unrecognized stored priority that is sent back
// unchanged unless the field is edited.
type taskForm struct {
	inputs       [fieldCount]textinput.Model
	focus        int
	editID       int64
	keepPriority service.Priority
	err          string
}

func newTaskForm() taskForm {
	var f taskForm
	placeholders := [fieldCount]string{
		"What needs to be done?",
		"optional",
		service.DefaultCategory,
		string(service.DefaultPriority),
		service.DateLayout,
		"comma, separated",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 40
		f.inputs[i] = in
	}
	return f
}

// openAdd resets the form for a new task.
func (f *taskForm) openAdd() tea.Cmd {
	*f = newTaskForm()
	return f.setFocus(fieldTitle)
}

// openEdit fills the form from t.
func (f *taskForm) openEdit(t service.Task) tea.Cmd {
	*f = newTaskForm()
	f.editID = t.ID
	f.inputs[fieldTitle].SetValue(t.Title)
	f.inputs[fieldDescription].SetValue(t.Description)
	f.inputs[fieldCategory].SetValue(t.Category)
	f.inputs[fieldPriority].SetValue(string(t.Priority))
	if t.Priority != "" && t.Priority.Rank() == 0 {
		f.keepPriority = t.Priority
	}
	if t.DueDate != nil {
		f.inputs[fieldDue].SetValue(t.DueDate.String())
	}
	f.inputs[fieldTags].SetValue(strings.Join(t.Tags, ", "))
	return f.setFocus(fieldTitle)
}

func (f *taskForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

// update routes a key to the focused input. Navigation keys are handled by
// the caller.
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *taskForm) value(i int) string { return f.inputs[i].Value() }

// input validates the form. An empty title is rejected before any request.
func (f *taskForm) input() (service.TaskInput, error) {
	priority := f.value(fieldPriority)
	keep := f.keepPriority != "" && strings.TrimSpace(priority) == string(f.keepPriority)
	if keep {
		priority = ""
	}
	in, err := service.NewTaskInput(
		f.value(fieldTitle),
		f.value(fieldDescription),
		f.value(fieldCategory),
		priority,
		f.value(fieldDue),
		f.value(fieldTags),
	)
	if err == nil && keep {
		in.Priority = f.keepPriority
	}
	return in, err
}

// fail shows a validation error inside the form.
func (f *taskForm) fail(err error) {
	if errors.Is(err, service.ErrTitleRequired) {
		f.err = "Title is required"
		return
	}
	f.err = err.Error()
}

func (f *taskForm) view() string {
	var b strings.Builder
	heading := "New task"
	if f.editID != 0 {
		heading = "Edit task"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := fieldLabels[i] + ":"
		if i == f.focus {
			label = promptStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		b.WriteString(padRight(label, fieldLabels[i]+":", 13))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab/shift+tab move · enter save · esc cancel"))
	return modalStyle.Render(b.String())
}

// padRight pads a styled string using the width of its plain text.
func padRight(styled, plain string, width int) string {
	if n := width - len(plain); n > 0 {
		return styled + strings.Repeat(" ", n)
	}
	return styled + " "
}
