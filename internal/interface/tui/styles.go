package tui

import "github.com/charmbracelet/lipgloss"

// theme holds the styles for one palette. Two instances exist, toggled
// at runtime.
type theme struct {
	userLabel      lipgloss.Style
	assistantLabel lipgloss.Style
	systemLabel    lipgloss.Style
	message        lipgloss.Style
	selectedMsg    lipgloss.Style

	sidebarTitle    lipgloss.Style
	sessionItem     lipgloss.Style
	sessionSelected lipgloss.Style
	sessionCurrent  lipgloss.Style

	statusBar lipgloss.Style
	errText   lipgloss.Style
	help      lipgloss.Style
	inputBox  lipgloss.Style
}

func darkTheme() theme {
	return theme{
		userLabel:      lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true),
		assistantLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true),
		systemLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true),
		message:        lipgloss.NewStyle(),
		selectedMsg:    lipgloss.NewStyle().Background(lipgloss.Color("236")),

		sidebarTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		sessionItem:     lipgloss.NewStyle().PaddingLeft(2),
		sessionSelected: lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170")).Bold(true),
		sessionCurrent:  lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("120")),

		statusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		inputBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
	}
}

func lightTheme() theme {
	return theme{
		userLabel:      lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
		assistantLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("28")).Bold(true),
		systemLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("130")).Bold(true),
		message:        lipgloss.NewStyle(),
		selectedMsg:    lipgloss.NewStyle().Background(lipgloss.Color("254")),

		sidebarTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("162")),
		sessionItem:     lipgloss.NewStyle().PaddingLeft(2),
		sessionSelected: lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("90")).Bold(true),
		sessionCurrent:  lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("22")),

		statusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		inputBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("248")),
	}
}

func themeFor(dark bool) theme {
	if dark {
		return darkTheme()
	}
	return lightTheme()
}
