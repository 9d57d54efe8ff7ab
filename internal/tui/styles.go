package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasktrack/internal/output"
	"tasktrack/internal/service"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("242"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	onlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

var priorityColors = map[service.Priority]lipgloss.Color{
	service.PriorityUrgent: lipgloss.Color("196"),
	service.PriorityHigh:   lipgloss.Color("208"),
	service.PriorityMedium: lipgloss.Color("220"),
	service.PriorityLow:    lipgloss.Color("42"),
}

// priorityBadge renders the priority as a colored badge.
func priorityBadge(p service.Priority) string {
	label := output.PriorityBadge(p)
	if label == "" {
		return ""
	}
	color, ok := priorityColors[p]
	if !ok {
		color = lipgloss.Color("244")
	}
	return badgeBase.Foreground(lipgloss.Color("0")).Background(color).Render(label)
}

func noticeStyle(level output.Level) lipgloss.Style {
	switch level {
	case output.LevelError:
		return errorStyle
	case output.LevelSuccess:
		return successStyle
	default:
		return dimStyle
	}
}
