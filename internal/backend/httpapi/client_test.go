package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/config"
	"tasktrack/internal/service"
)

const groceriesJSON = `{
	"id": 1,
	"title": "Buy groceries",
	"description": "Milk, eggs",
	"category": "shopping",
	"priority": "high",
	"due_date": "2024-03-01",
	"tags": ["home"],
	"completed": false,
	"created_at": "2024-02-20T10:00:00.123456"
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.APIURL = srv.URL
	return New(cfg, WithHTTPClient(srv.Client()), WithUserAgent("tasktrack/test"))
}

func TestListTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "tasktrack/test", r.Header.Get("User-Agent"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err, "request id should be a UUID")
		io.WriteString(w, `{"tasks": [`+groceriesJSON+`]}`)
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, service.PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-03-01", task.DueDate.String())
	assert.Equal(t, []string{"home"}, task.Tags)
	assert.Equal(t, 2024, task.CreatedAt.Year())
}

func TestListTasks_EmptyIsNonNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"tasks": []}`)
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestListTasks_ShapeMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"tasks": [{"id": "one", "title": "x", "completed": false, "created_at": "2024-01-01"}]}`)
	})

	_, err := c.ListTasks(context.Background())
	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "/tasks/0/id", shape.Location)
}

func TestListTasks_MissingEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := c.ListTasks(context.Background())
	var shape *ShapeError
	assert.ErrorAs(t, err, &shape)
}

func TestListTasks_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>`)
	})

	_, err := c.ListTasks(context.Background())
	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Contains(t, shape.Message, "invalid JSON")
}

func TestCreateTask_SendsBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, groceriesJSON)
	})

	due, err := service.ParseDate("2024-03-01")
	require.NoError(t, err)
	task, err := c.CreateTask(context.Background(), service.TaskInput{
		Title:    "Buy groceries",
		Category: "shopping",
		Priority: service.PriorityHigh,
		DueDate:  &due,
		Tags:     []string{"home"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)

	assert.Equal(t, "Buy groceries", got["title"])
	assert.Equal(t, "shopping", got["category"])
	assert.Equal(t, "high", got["priority"])
	assert.Equal(t, "2024-03-01", got["due_date"])
	assert.Equal(t, []any{"home"}, got["tags"])
}

func TestCreateTask_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "Title is required"}`)
	})

	_, err := c.CreateTask(context.Background(), service.TaskInput{Title: " "})
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusBadRequest, status.Code)
	assert.Equal(t, "Title is required", status.Message)
	assert.True(t, status.Rejected())
	assert.Equal(t, "POST /tasks: 400 Title is required", err.Error())
}

func TestGetTask_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "Task not found"}`)
	})

	_, err := c.GetTask(context.Background(), 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tasks/1/toggle", r.URL.Path)
		io.WriteString(w, `{"id": 1, "title": "Buy groceries", "completed": true,
			"created_at": "2024-02-20T10:00:00", "completed_at": "2024-02-21T09:30:00"}`)
	})

	task, err := c.ToggleTask(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, 21, task.CompletedAt.Day())
}

func TestUpdateTask_SendsOnlySetFields(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, groceriesJSON)
	})

	title := "Buy more groceries"
	_, err := c.UpdateTask(context.Background(), 1, service.TaskUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Buy more groceries"}, got)
}

func TestUpdateTask_ClearsDueDate(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(b)
		io.WriteString(w, `{"id": 1, "title": "Pay rent", "due_date": null, "completed": false,
			"created_at": "2024-02-20T10:00:00"}`)
	})

	task, err := c.UpdateTask(context.Background(), 1, service.TaskUpdate{ClearDue: true})
	require.NoError(t, err)
	assert.Contains(t, body, `"due_date":null`)
	assert.Nil(t, task.DueDate)
}

func TestListTasks_EmptyDueDate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"tasks": [`+groceriesJSON+`, {"id": 2, "title": "Call mum", "due_date": "",
			"completed": false, "created_at": "2024-02-20T10:00:00"}]}`)
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.NotNil(t, tasks[0].DueDate)
	assert.Nil(t, tasks[1].DueDate)
}

func TestDeleteTask(t *testing.T) {
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		io.WriteString(w, `{"message": "Task deleted", "task": `+groceriesJSON+`}`)
	})

	require.NoError(t, c.DeleteTask(context.Background(), 1))
	assert.Equal(t, http.MethodDelete, method)
}

func TestDeleteTask_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.DeleteTask(context.Background(), 1)
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.False(t, status.Rejected())
	assert.Empty(t, status.Message)
	assert.Contains(t, err.Error(), "Internal Server Error")
}

func TestClearCompleted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/clear-completed", r.URL.Path)
		io.WriteString(w, `{"message": "Cleared 1 completed tasks", "cleared": [`+groceriesJSON+`]}`)
	})

	cleared, err := c.ClearCompleted(context.Background())
	require.NoError(t, err)
	assert.Len(t, cleared, 1)
}

func TestStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"total_tasks": 3, "pending": 2, "completed": 1, "completion_rate": 33.3}`)
	})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.Stats{TotalTasks: 3, Pending: 2, Completed: 1, CompletionRate: 33.3}, stats)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name string
		code int
		want bool
	}{
		{"ok", http.StatusOK, true},
		{"unavailable", http.StatusServiceUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				io.WriteString(w, `{"status": "healthy"}`)
			})
			ok, err := c.Health(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.APIURL = srv.URL

	ok, err := New(cfg).Health(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.APIURL = srv.URL
	cfg.Timeout = config.Duration{Duration: 20 * time.Millisecond}

	_, err = New(cfg, WithHTTPClient(srv.Client())).ListTasks(context.Background())
	assert.True(t, errors.Is(err, ErrTimeout), "expected timeout, got %v", err)
}
