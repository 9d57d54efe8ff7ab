// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"tasktrack/internal/service"
)

// Epoch is the creation time of the first task added to a FakeService.
// Each later task is created one minute after the previous one.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64

	// Healthy is returned by Health when HealthErr is nil.
	Healthy bool

	// Error injection for testing
	HealthErr         error
	ListTasksErr      error
	GetTaskErr        error
	StatsErr          error
	CreateTaskErr     error
	UpdateTaskErr     error
	ToggleTaskErr     error
	DeleteTaskErr     error
	ClearCompletedErr error

	// Call counters
	ListCalls   int
	StatsCalls  int
	CreateCalls int
	UpdateCalls int
	ToggleCalls int
	DeleteCalls int
	ClearCalls  int

	// LastInput is the most recent CreateTask input.
	LastInput service.TaskInput
	// LastUpdate is the most recent UpdateTask patch.
	LastUpdate service.TaskUpdate
}

// NewFakeService creates an empty, healthy FakeService.
func NewFakeService() *FakeService {
	return &FakeService{Healthy: true, nextID: 1}
}

// AddTask adds a pending task with defaults and returns it.
func (f *FakeService) AddTask(title string) service.Task {
	return f.Seed(service.Task{Title: title})
}

// Seed stores t as given, assigning an ID and creation time when unset.
func (f *FakeService) Seed(t service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = service.Timestamp{Time: Epoch.Add(time.Duration(t.ID-1) * time.Minute)}
	}
	if t.Category == "" {
		t.Category = service.DefaultCategory
	}
	if t.Priority == "" {
		t.Priority = service.DefaultPriority
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks)
}

// Health implements service.Service.
func (f *FakeService) Health(ctx context.Context) (bool, error) {
	if f.HealthErr != nil {
		return false, f.HealthErr
	}
	return f.Healthy, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int64) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	return f.tasks[i], nil
}

// Stats implements service.Service.
func (f *FakeService) Stats(ctx context.Context) (service.Stats, error) {
	f.mu.Lock()
	f.StatsCalls++
	f.mu.Unlock()
	if f.StatsErr != nil {
		return service.Stats{}, f.StatsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := service.Stats{TotalTasks: len(f.tasks)}
	for _, t := range f.tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.TotalTasks - s.Completed
	if s.TotalTasks > 0 {
		s.CompletionRate = math.Round(float64(s.Completed)/float64(s.TotalTasks)*1000) / 10
	}
	return s, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	f.CreateCalls++
	f.LastInput = in
	f.mu.Unlock()
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	return f.Seed(service.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
	}), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, upd service.TaskUpdate) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdate = upd
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	t := &f.tasks[i]
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.DueDate != nil {
		t.DueDate = upd.DueDate
	} else if upd.ClearDue {
		t.DueDate = nil
	}
	if upd.Tags != nil {
		t.Tags = *upd.Tags
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	return *t, nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id int64) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ToggleCalls++
	if f.ToggleTaskErr != nil {
		return service.Task{}, f.ToggleTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

// ClearCompleted implements service.Service.
func (f *FakeService) ClearCompleted(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearCompletedErr != nil {
		return nil, f.ClearCompletedErr
	}
	var cleared, kept []service.Task
	for _, t := range f.tasks {
		if t.Completed {
			cleared = append(cleared, t)
		} else {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return cleared, nil
}

// index returns the position of id, or -1. Caller holds the lock.
func (f *FakeService) index(id int64) int {
	return slices.IndexFunc(f.tasks, func(t service.Task) bool { return t.ID == id })
}

var _ service.Service = (*FakeService)(nil)
