package output

import "fmt"

// User-facing notification texts.
const (
	MsgTaskDeleted   = "Task deleted successfully!"
	MsgLoadFailed    = "Failed to load tasks"
	MsgAddFailed     = "Failed to add task"
	MsgUpdateFailed  = "Failed to update task"
	MsgDeleteFailed  = "Failed to delete task"
	MsgConfirmDelete = "Are you sure you want to delete this task?"
	MsgConfirmClear  = "Delete all completed tasks?"
	MsgConnected     = "API Connected"
	MsgDisconnected  = "API Disconnected"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notification is a transient message shown to the user.
type Notification struct {
	Level Level
	Text  string
}

func Success(text string) Notification { return Notification{Level: LevelSuccess, Text: text} }
func Failure(text string) Notification { return Notification{Level: LevelError, Text: text} }

// MsgTaskAdded is shown after a task was created.
func MsgTaskAdded(title string) string {
	return `Task "` + title + `" added successfully!`
}

// MsgTaskToggled is shown after a completion toggle.
func MsgTaskToggled(completed bool) string {
	if completed {
		return "Task marked as completed"
	}
	return "Task marked as pending"
}

// MsgTaskUpdated is shown after an edit.
func MsgTaskUpdated(title string) string {
	return `Task "` + title + `" updated successfully!`
}

// MsgCleared reports how many completed tasks were removed.
func MsgCleared(n int) string {
	return fmt.Sprintf("Cleared %d completed tasks", n)
}

// HealthText returns the connection indicator text.
func HealthText(connected bool) string {
	if connected {
		return MsgConnected
	}
	return MsgDisconnected
}
