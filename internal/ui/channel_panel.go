package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sensor-readout.klederson.com/internal/config"
)

// Reading is the latest value of one plotted channel.
type Reading struct {
	Label      string
	Unit       string
	ColorIndex int
	Value      float64
	Min, Max   float64 // current Y range, for the level bar
}

// SessionFields describe the running session in the side panel.
type SessionFields struct {
	Source   string
	Category string
	Session  string
	Arrivals uint64
	Rates    []float64 // raw events per second, oldest first
}

// RenderChannelPanel renders the side panel: one entry per plotted channel
// followed by the session details.
func RenderChannelPanel(readings []Reading, info SessionFields, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 4 {
		innerH = 4
	}

	lines := []string{
		StylePanelTitle.Render(fmt.Sprintf("CHANNELS [%d]", len(readings))),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	if len(readings) == 0 {
		lines = append(lines, "", StyleHelp.Render(" No samples..."), StyleHelp.Render(" Waiting for sensor"))
	}
	for _, r := range readings {
		lines = append(lines, renderReading(r, innerW)...)
	}

	lines = append(lines, StyleSeparator.Render(strings.Repeat("-", innerW)))
	fields := []struct{ label, value string }{
		{"Source", info.Source},
		{"Sensor", info.Category},
		{"Session", info.Session},
		{"Events", strconv.FormatUint(info.Arrivals, 10)},
	}
	for _, f := range fields {
		line := StyleFieldLabel.Render(fmt.Sprintf(" %-8s", f.label)) + StyleFieldValue.Render(f.value)
		lines = append(lines, clampWidth(line, innerW))
	}
	if len(info.Rates) > 0 {
		lines = append(lines, StyleFieldLabel.Render(" Rate/s:"))
		spark := renderSparkline(info.Rates, innerW-2)
		lines = append(lines, " "+lipgloss.NewStyle().Foreground(ColorGreen).Render(spark))
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))

	// lipgloss Height() only sets a minimum; it won't truncate overflow.
	out := strings.Split(rendered, "\n")
	if len(out) > height {
		out = out[:height]
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func renderReading(r Reading, maxW int) []string {
	color := lipgloss.NewStyle().Foreground(lipgloss.Color(config.PaletteColor(r.ColorIndex)))
	value := strconv.FormatFloat(r.Value, 'f', 3, 64)
	if r.Unit != "" {
		value += " " + r.Unit
	}

	barW := maxW - 4
	if barW < 5 {
		barW = 5
	}
	return []string{
		clampWidth(" "+color.Render("━ "+r.Label), maxW),
		"   " + StyleFieldValue.Render(value),
		"  " + renderLevelBar(r.Value, r.Min, r.Max, barW, color),
		"",
	}
}

// renderLevelBar shows where value sits in [lo, hi].
func renderLevelBar(value, lo, hi float64, width int, fill lipgloss.Style) string {
	ratio := 0.0
	if hi > lo {
		ratio = (value - lo) / (hi - lo)
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	return StyleHelp.Render("[") + fill.Render(bar[:filled]) +
		lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:]) + StyleHelp.Render("]")
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	chars := []rune("▁▂▃▄▅▆▇█")

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for _, v := range values[start:] {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// clampWidth truncates a styled line to w cells.
func clampWidth(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}
