package service

import (
	"errors"
	"strings"
)

// ErrTitleRequired is returned when a task title is empty or whitespace.
var ErrTitleRequired = errors.New("title required")

// NewTaskInput validates and normalizes the add form fields.
// Category defaults to general, priority to medium; an empty due date is null
// and tags are comma-split with empties dropped.
func NewTaskInput(title, description, category, priority, due, tags string) (TaskInput, error) {
	in := TaskInput{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Priority:    DefaultPriority,
		Tags:        ParseTags(tags),
	}
	if in.Title == "" {
		return TaskInput{}, ErrTitleRequired
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	if strings.TrimSpace(priority) != "" {
		p, err := ParsePriority(priority)
		if err != nil {
			return TaskInput{}, err
		}
		in.Priority = p
	}
	if strings.TrimSpace(due) != "" {
		d, err := ParseDate(due)
		if err != nil {
			return TaskInput{}, err
		}
		in.DueDate = &d
	}
	return in, nil
}

// AsUpdate returns an update that sets every field of in. A nil due date
// clears the stored one.
func (in TaskInput) AsUpdate() TaskUpdate {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskUpdate{
		Title:       &in.Title,
		Description: &in.Description,
		Category:    &in.Category,
		Priority:    &in.Priority,
		DueDate:     in.DueDate,
		ClearDue:    in.DueDate == nil,
		Tags:        &tags,
	}
}
