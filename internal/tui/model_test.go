package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/backend/httpapi"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
	"tasktrack/internal/testutil"
)

func newLoaded(t *testing.T, svc *testutil.FakeService) Model {
	t.Helper()
	m := New(context.Background(), svc, Options{StatsInterval: time.Hour})
	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	next, _ := m.Update(tasksLoadedMsg{tasks: tasks})
	return next.(Model)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLoad_DerivesView(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	svc.AddTask("Write report")

	m := newLoaded(t, svc)
	assert.False(t, m.loading)
	assert.Len(t, m.view, 2)
	assert.Contains(t, m.View(), "Buy groceries")
	assert.Contains(t, m.View(), "Write report")
}

func TestLoad_FailureShowsNotice(t *testing.T) {
	m := New(context.Background(), testutil.NewFakeService(), Options{})
	m = apply(t, m, tasksLoadedMsg{err: errors.New("connection refused")})

	require.NotNil(t, m.notice)
	assert.Equal(t, output.LevelError, m.notice.Level)
	assert.Equal(t, output.MsgLoadFailed, m.notice.Text)
	assert.Empty(t, m.view)
}

func TestStats_FailureIsSilent(t *testing.T) {
	m := newLoaded(t, testutil.NewFakeService())
	m = apply(t, m, statsLoadedMsg{err: errors.New("boom")})
	assert.Nil(t, m.notice)
	assert.False(t, m.haveStats)

	m = apply(t, m, statsLoadedMsg{stats: service.Stats{TotalTasks: 3, Pending: 2, Completed: 1, CompletionRate: 33.3}})
	assert.True(t, m.haveStats)
	assert.Contains(t, m.View(), "Completion 33%")
}

func TestEmptyState(t *testing.T) {
	m := newLoaded(t, testutil.NewFakeService())
	view := m.View()
	assert.Contains(t, view, output.EmptyTitle)
	assert.Contains(t, view, output.EmptyHint)
}

func TestHealthIndicator(t *testing.T) {
	m := newLoaded(t, testutil.NewFakeService())
	assert.Contains(t, m.View(), "checking API")

	m = apply(t, m, healthMsg{connected: true})
	assert.Contains(t, m.View(), output.MsgConnected)

	m = apply(t, m, healthMsg{connected: false})
	assert.Contains(t, m.View(), output.MsgDisconnected)
}

func TestCheckHealth_ErrorIsDisconnected(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.HealthErr = errors.New("dial tcp: connection refused")
	m := New(context.Background(), svc, Options{})

	msg := m.checkHealth()()
	assert.Equal(t, healthMsg{connected: false}, msg)
}

func TestCursorMovement(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("one")
	svc.AddTask("two")
	m := newLoaded(t, svc)

	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.cursor)
	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.cursor, "cursor stays on the last row")
	m, _ = press(t, m, "k")
	m, _ = press(t, m, "k")
	assert.Equal(t, 0, m.cursor)
}

func TestToggle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	m := newLoaded(t, svc)

	m, cmd := press(t, m, "space")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, 1, svc.ToggleCalls)

	done, ok := msg.(actionDoneMsg)
	require.True(t, ok)
	assert.True(t, done.ok)
	assert.Equal(t, output.MsgTaskToggled(true), done.notice.Text)

	m = apply(t, m, done)
	require.NotNil(t, m.notice)
	assert.Equal(t, output.LevelSuccess, m.notice.Level)
}

func TestToggle_FailureIncludesReason(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	svc.ToggleTaskErr = &httpapi.StatusError{Method: "PATCH", Path: "/tasks/1/toggle", Code: 400, Message: "bad toggle"}
	m := newLoaded(t, svc)

	_, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	done := cmd().(actionDoneMsg)
	assert.False(t, done.ok)
	assert.Equal(t, output.MsgUpdateFailed+": bad toggle", done.notice.Text)
}

func TestDelete_Confirmed(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	m := newLoaded(t, svc)

	m, cmd := press(t, m, "d")
	assert.Nil(t, cmd)
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), output.MsgConfirmDelete)
	assert.Zero(t, svc.DeleteCalls, "nothing is deleted before confirmation")

	m, cmd = press(t, m, "y")
	require.NotNil(t, cmd)
	assert.Equal(t, modeList, m.mode)

	done := cmd().(actionDoneMsg)
	assert.Equal(t, 1, svc.DeleteCalls)
	assert.Equal(t, output.MsgTaskDeleted, done.notice.Text)
	assert.Empty(t, svc.Tasks())
}

func TestDelete_Declined(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	m := newLoaded(t, svc)

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Zero(t, svc.DeleteCalls)
}

func TestAdd_EmptyTitleMakesNoRequest(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newLoaded(t, svc)

	m, _ = press(t, m, "a")
	require.Equal(t, modeForm, m.mode)

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Title is required", m.form.err)
	assert.Zero(t, svc.CreateCalls)
}

func TestAdd_CreatesWithDefaults(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newLoaded(t, svc)

	m, _ = press(t, m, "a")
	m = typeText(t, m, "Milk")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	done := cmd().(actionDoneMsg)
	assert.Equal(t, 1, svc.CreateCalls)
	assert.Equal(t, "Milk", svc.LastInput.Title)
	assert.Equal(t, service.DefaultCategory, svc.LastInput.Category)
	assert.Equal(t, service.DefaultPriority, svc.LastInput.Priority)

	m = apply(t, m, done)
	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.busy)
	assert.Equal(t, output.MsgTaskAdded("Milk"), m.notice.Text)
}

func TestAdd_FailureKeepsForm(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = &httpapi.StatusError{Method: "POST", Path: "/tasks", Code: 400, Message: "Title is required"}
	m := newLoaded(t, svc)

	m, _ = press(t, m, "a")
	m = typeText(t, m, "x")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)

	m = apply(t, m, cmd())
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "x", m.form.value(fieldTitle))
	assert.Equal(t, output.MsgAddFailed+": Title is required", m.form.err)
}

func TestEdit_PrefillsAndUpdates(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	m := newLoaded(t, svc)

	m, _ = press(t, m, "e")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, int64(1), m.form.editID)
	assert.Equal(t, "Buy groceries", m.form.value(fieldTitle))

	m = typeText(t, m, "!")
	_, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, 1, svc.UpdateCalls)
	require.NotNil(t, svc.LastUpdate.Title)
	assert.Equal(t, "Buy groceries!", *svc.LastUpdate.Title)
}

func TestEdit_EmptyDueClearsDate(t *testing.T) {
	svc := testutil.NewFakeService()
	due, err := service.ParseDate("2024-01-01")
	require.NoError(t, err)
	svc.Seed(service.Task{Title: "Pay rent", DueDate: &due})
	m := newLoaded(t, svc)

	m, _ = press(t, m, "e")
	require.Equal(t, "2024-01-01", m.form.value(fieldDue))
	for m.form.focus != fieldDue {
		m, _ = press(t, m, "tab")
	}
	for range "2024-01-01" {
		m, _ = press(t, m, "backspace")
	}
	require.Empty(t, m.form.value(fieldDue))

	_, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	msg := cmd().(actionDoneMsg)
	assert.True(t, msg.ok)

	assert.True(t, svc.LastUpdate.ClearDue)
	task, err := svc.GetTask(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
}

func TestEdit_KeepsUnknownPriority(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed(service.Task{Title: "Ship it", Priority: "critical"})
	m := newLoaded(t, svc)

	m, _ = press(t, m, "e")
	assert.Equal(t, "critical", m.form.value(fieldPriority))
	m = typeText(t, m, "!")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Empty(t, m.form.err)
	cmd()

	require.NotNil(t, svc.LastUpdate.Priority)
	assert.Equal(t, service.Priority("critical"), *svc.LastUpdate.Priority)
	assert.Equal(t, "Ship it!", *svc.LastUpdate.Title)
}

func TestEdit_ChangedUnknownPriorityIsValidated(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed(service.Task{Title: "Ship it", Priority: "critical"})
	m := newLoaded(t, svc)

	m, _ = press(t, m, "e")
	for m.form.focus != fieldPriority {
		m, _ = press(t, m, "tab")
	}
	m = typeText(t, m, "!")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "invalid priority: critical!", m.form.err)
	assert.Zero(t, svc.UpdateCalls)
}

func TestFormEscapeCancels(t *testing.T) {
	svc := testutil.NewFakeService()
	m := newLoaded(t, svc)

	m, _ = press(t, m, "a")
	m, _ = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Zero(t, svc.CreateCalls)
}

func TestStatusKeys(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("open")
	svc.Seed(service.Task{Title: "closed", Completed: true})
	m := newLoaded(t, svc)
	require.Len(t, m.view, 2)

	m, _ = press(t, m, "2")
	require.Len(t, m.view, 1)
	assert.Equal(t, "open", m.view[0].Title)

	m, _ = press(t, m, "3")
	require.Len(t, m.view, 1)
	assert.Equal(t, "closed", m.view[0].Title)

	m, _ = press(t, m, "1")
	assert.Len(t, m.view, 2)
}

func TestCategoryCycle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Seed(service.Task{Title: "report", Category: "work"})
	svc.Seed(service.Task{Title: "milk", Category: "shopping"})
	m := newLoaded(t, svc)

	m, _ = press(t, m, "c")
	require.Len(t, m.view, 1)
	assert.Equal(t, m.state.Filter().Category, m.view[0].Category)
}

func TestSearch_FiltersLive(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy groceries")
	svc.AddTask("Write report")
	m := newLoaded(t, svc)

	m, _ = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m = typeText(t, m, "GROC")
	require.Len(t, m.view, 1)
	assert.Equal(t, "Buy groceries", m.view[0].Title)

	m, _ = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, m.view, 1, "search stays applied after enter")

	m, _ = press(t, m, "esc")
	assert.Len(t, m.view, 2)
}

func TestNotice_ClearsOnlyLatest(t *testing.T) {
	m := newLoaded(t, testutil.NewFakeService())
	m = apply(t, m, actionDoneMsg{notice: output.Failure("first")})
	m = apply(t, m, actionDoneMsg{notice: output.Failure("second")})

	m = apply(t, m, clearNoticeMsg{seq: 1})
	require.NotNil(t, m.notice)
	assert.Equal(t, "second", m.notice.Text)

	m = apply(t, m, clearNoticeMsg{seq: 2})
	assert.Nil(t, m.notice)
}

func TestHelpToggle(t *testing.T) {
	m := newLoaded(t, testutil.NewFakeService())
	m, _ = press(t, m, "?")
	assert.Equal(t, modeHelp, m.mode)
	assert.Contains(t, m.View(), "toggle complete")

	m, _ = press(t, m, "j")
	assert.Equal(t, modeList, m.mode)
}

func TestQuit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := newLoaded(t, testutil.NewFakeService())
			_, cmd := press(t, m, key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestStatsTick_Reschedules(t *testing.T) {
	m := newLoaded(t, testutil.NewFakeService())
	_, cmd := m.Update(statsTickMsg{})
	assert.NotNil(t, cmd)
}
