package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	warnFg    = lipgloss.Color("#F59E0B")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	modeStyle  = lipgloss.NewStyle().Foreground(baseFg).Background(accentFg).Padding(0, 1)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)

	hoverStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#29D1EA"))
	partialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E")).Bold(true)
)

