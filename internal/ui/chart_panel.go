package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderChartPanel wraps chart content with a styled border and a title
// line. The chart itself is rendered by the chart package.
func RenderChartPanel(width, height int, title, chartContent, overview, legend string, active bool) string {
	innerW := width - 4
	head := StylePanelTitle.Render(title)
	if pad := innerW - lipgloss.Width(head); pad > 0 {
		head += strings.Repeat(" ", pad)
	}

	parts := []string{head, chartContent}
	if overview != "" {
		parts = append(parts, overview)
	}
	parts = append(parts, legend)

	style := StylePanelBorder
	if active {
		style = StylePanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(strings.Join(parts, "\n"))
}
