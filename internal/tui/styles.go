package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	itemStyle      = lipgloss.NewStyle()
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
