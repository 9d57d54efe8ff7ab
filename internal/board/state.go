package board

import (
	"slices"

	"tasktrack/internal/service"
)

// State is the client-side view state: the last fetched snapshot plus the
// current filter controls. The snapshot is only ever replaced wholesale.
type State struct {
	tasks      []service.Task
	categories []string
	filter     Filter
}

// NewState returns an empty state showing all tasks.
func NewState() *State {
	return &State{filter: Filter{Status: StatusAll}}
}

// Replace swaps in a freshly fetched snapshot and rebuilds the category options.
// A selected category that no longer exists is cleared.
func (s *State) Replace(tasks []service.Task) {
	s.tasks = slices.Clone(tasks)
	s.categories = Categories(s.tasks)
	if s.filter.Category != "" && !slices.Contains(s.categories, s.filter.Category) {
		s.filter.Category = ""
	}
}

// Tasks returns a copy of the snapshot.
func (s *State) Tasks() []service.Task { return slices.Clone(s.tasks) }

// Categories returns the category options observed in the snapshot.
func (s *State) Categories() []string { return slices.Clone(s.categories) }

// Filter returns the current filter controls.
func (s *State) Filter() Filter { return s.filter }

func (s *State) SetStatus(st Status)   { s.filter.Status = st }
func (s *State) SetCategory(c string)  { s.filter.Category = c }
func (s *State) SetSearch(term string) { s.filter.Search = term }
func (s *State) SetFilter(f Filter)    { s.filter = f }
func (s *State) Len() int              { return len(s.tasks) }
func (s *State) View() []service.Task  { return Derive(s.tasks, s.filter) }

// CycleCategory advances the category filter through "" and each observed
// category in order, wrapping back to "".
func (s *State) CycleCategory() string {
	if len(s.categories) == 0 {
		s.filter.Category = ""
		return ""
	}
	idx := slices.Index(s.categories, s.filter.Category)
	switch {
	case s.filter.Category == "":
		s.filter.Category = s.categories[0]
	case idx < 0 || idx == len(s.categories)-1:
		s.filter.Category = ""
	default:
		s.filter.Category = s.categories[idx+1]
	}
	return s.filter.Category
}

// Find returns the snapshot entry with the given ID.
func (s *State) Find(id int64) (service.Task, bool) {
	for _, task := range s.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return service.Task{}, false
}
