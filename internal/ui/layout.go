package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the chart panel and channel panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, chartPanel, channelPanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, chartPanel, channelPanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
