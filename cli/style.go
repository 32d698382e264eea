package cli

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	primaryColor   = lipgloss.Color("39")  // Blue
	secondaryColor = lipgloss.Color("245") // Gray
	errorColor     = lipgloss.Color("196") // Red
	successColor   = lipgloss.Color("82")  // Green
	warningColor   = lipgloss.Color("214") // Orange
)

// Styles
var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	providerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	answerLabelStyle = lipgloss.NewStyle().
				Foreground(successColor).
				Bold(true)

	functionStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	availableStyle   = lipgloss.NewStyle().Foreground(successColor)
	unavailableStyle = lipgloss.NewStyle().Foreground(errorColor)
)
