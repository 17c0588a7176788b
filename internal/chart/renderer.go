package chart

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/series"
)

var (
	colorAxis  = lipgloss.Color("#008F11")
	colorLabel = lipgloss.Color("#00CC33")
	colorDim   = lipgloss.Color("#004A0A")

	styleAxis  = lipgloss.NewStyle().Foreground(colorAxis)
	styleLabel = lipgloss.NewStyle().Foreground(colorLabel)
	styleGrid  = lipgloss.NewStyle().Foreground(colorDim)
	styleTitle = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// braille dot bits indexed by [x][y] inside one cell
var brailleBits = [dotsPerCol][dotsPerRow]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const (
	yLabelWidth = 8
	minWidth    = yLabelWidth + 12
	minHeight   = 5
)

// Frame is what a chart draws: the plotted channels and the window to show.
type Frame struct {
	Channels []*series.Channel
	Viewport series.Viewport
	Unit     string
	Interval time.Duration // sampling period; zero means config.SampleInterval
}

// canvas is a braille dot grid with one color owner per text cell.
type canvas struct {
	cols, rows int
	dots       []rune
	owner      []int
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, dots: make([]rune, cols*rows), owner: make([]int, cols*rows)}
	for i := range c.owner {
		c.owner[i] = -1
	}
	return c
}

func (c *canvas) set(x, y, color int) {
	col, row := x/dotsPerCol, y/dotsPerRow
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	i := row*c.cols + col
	c.dots[i] |= brailleBits[x%dotsPerCol][y%dotsPerRow]
	c.owner[i] = color
}

// line draws a dot line with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, color int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) plot(ch *series.Channel, vp series.Viewport) {
	pts := ch.Range(vp.XMin, vp.XMax)
	w, h := c.cols*dotsPerCol, c.rows*dotsPerRow
	px, py := -1, -1
	for _, p := range pts {
		x := TickToDot(p.Tick, vp.XMin, vp.XMax, w)
		y := ValueToDot(p.Value, vp.YMin, vp.YMax, h)
		if px < 0 {
			c.set(x, y, ch.Spec.ColorIndex)
		} else {
			c.line(px, py, x, y, ch.Spec.ColorIndex)
		}
		px, py = x, y
	}
}

// Render draws the live chart: a Y label gutter, the braille plot area and
// an X axis labeled in seconds. Only visible channels are drawn.
func Render(width, height int, f Frame) string {
	if width < minWidth || height < minHeight {
		return ""
	}
	plotW := width - yLabelWidth - 1
	plotH := height - 2

	cv := newCanvas(plotW, plotH)
	if f.Viewport.HasY() {
		for _, ch := range f.Channels {
			if ch != nil && ch.Spec.Visible {
				cv.plot(ch, f.Viewport)
			}
		}
	}

	var sb strings.Builder
	for row := 0; row < plotH; row++ {
		sb.WriteString(yLabel(row, plotH, f.Viewport))
		sb.WriteString(styleAxis.Render("┤"))
		for col := 0; col < plotW; col++ {
			sb.WriteString(renderCell(cv, col, row))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(xAxisLine(plotW))
	sb.WriteByte('\n')
	sb.WriteString(xAxisLabels(plotW, f.Viewport, f.Interval))
	return sb.String()
}

func renderCell(cv *canvas, col, row int) string {
	i := row*cv.cols + col
	if cv.dots[i] == 0 {
		if row%dotsPerRow == 0 && col%dotsPerRow == 0 {
			return styleGrid.Render("·")
		}
		return " "
	}
	color := lipgloss.Color(config.PaletteColor(cv.owner[i]))
	return lipgloss.NewStyle().Foreground(color).Render(string(0x2800 + cv.dots[i]))
}

func yLabel(row, rows int, vp series.Viewport) string {
	label := ""
	if vp.HasY() && (row == 0 || row == rows-1 || row == rows/2) {
		label = FormatValue(RowValue(row, rows, vp.YMin, vp.YMax))
	}
	if len(label) > yLabelWidth {
		label = label[:yLabelWidth]
	}
	return styleLabel.Render(strings.Repeat(" ", yLabelWidth-len(label)) + label)
}

func xAxisLine(plotW int) string {
	line := []rune(strings.Repeat("─", plotW))
	for i := 0; i <= config.XLabels; i++ {
		line[divisionCol(i, plotW)] = '┬'
	}
	return styleAxis.Render(strings.Repeat(" ", yLabelWidth) + "└" + string(line))
}

func xAxisLabels(plotW int, vp series.Viewport, interval time.Duration) string {
	row := []byte(strings.Repeat(" ", plotW+yLabelWidth+1))
	next := 0
	for i := 0; i <= config.XLabels; i++ {
		tick := vp.XMin + vp.Width()*i/config.XLabels
		label := SecondsLabel(tick, interval)
		at := yLabelWidth + 1 + divisionCol(i, plotW) - len(label)/2
		at = min(at, len(row)-len(label))
		if at < next {
			continue
		}
		copy(row[at:], label)
		next = at + len(label) + 1
	}
	return styleLabel.Render(string(row))
}

func divisionCol(i, plotW int) int {
	return i * (plotW - 1) / config.XLabels
}

// RenderLegend produces the channel legend line, centered in width.
func RenderLegend(width int, channels []*series.Channel, unit string, interval time.Duration) string {
	var parts []string
	for _, ch := range channels {
		if ch == nil || !ch.Spec.Visible {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(config.PaletteColor(ch.Spec.ColorIndex)))
		parts = append(parts, style.Render("━ "+ch.Spec.Label))
	}
	legend := strings.Join(parts, "  ")
	if unit != "" {
		legend += "  " + styleTitle.Render("["+unit+"]")
	}
	legend += "  " + styleLabel.Render(XAxisTitle(interval))

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
