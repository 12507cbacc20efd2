package display

import (
	"lifeplan_agent/pkg"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#6C6C6C")
	successColor   = lipgloss.Color("#73F59F")
	warnColor      = lipgloss.Color("#F5C26B")
	errorColor     = lipgloss.Color("#FF6B6B")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	DayStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	WarnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	priorityStyles = map[pkg.Priority]lipgloss.Style{
		pkg.PriorityHigh:   lipgloss.NewStyle().Foreground(errorColor),
		pkg.PriorityMedium: lipgloss.NewStyle().Foreground(warnColor),
		pkg.PriorityLow:    lipgloss.NewStyle().Foreground(secondaryColor),
	}
)
