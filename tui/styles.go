package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ownUserStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	otherUserStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	messagesStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
	sidebarStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

const sidebarWidth = 20
