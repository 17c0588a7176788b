package chart

import (
	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"sensor-readout.klederson.com/internal/series"
)

// Overview is an autoscaled strip of the whole session history. The first
// plotted channel is highlighted, the rest are dimmed.
type Overview struct {
	canvas plot.Canvas
	width  int
	height int
}

// NewOverview creates an overview strip of the given size in cells.
func NewOverview(width, height int) *Overview {
	o := &Overview{}
	o.Resize(width, height)
	return o
}

// Resize rebuilds the canvas for a new terminal size.
func (o *Overview) Resize(width, height int) {
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}
	o.width, o.height = width, height
	o.canvas = plot.NewCanvas(width, height)
	o.canvas.ShowAxis = false
}

// Reset clears the plotted data.
func (o *Overview) Reset() {
	o.Resize(o.width, o.height)
}

// Update refills the canvas from the session channels.
func (o *Overview) Update(channels []*series.Channel) {
	var data [][]float64
	var colors []plot.Color

	highlight, dim := plot.Red, plot.DimGray
	if !lipgloss.HasDarkBackground() {
		highlight, dim = plot.Black, plot.LightGray
	}

	points := o.width * dotsPerCol
	for _, ch := range channels {
		if ch == nil || !ch.Spec.Visible || ch.Len() == 0 {
			continue
		}
		data = append(data, Downsample(ch.Values(), points))
		if len(colors) == 0 {
			colors = append(colors, highlight)
		} else {
			colors = append(colors, dim)
		}
	}
	if len(data) == 0 {
		return
	}
	// the highlighted line is drawn last so it stays on top
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
		colors[i], colors[j] = colors[j], colors[i]
	}
	o.canvas.NumDataPoints = len(data[0])
	o.canvas.LineColors = colors
	o.canvas.Fill(data)
}

// View returns the rendered strip.
func (o *Overview) View() string {
	return o.canvas.String()
}

// Downsample reduces values to at most n points, keeping the extreme of each
// bucket so spikes survive.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return append([]float64(nil), values...)
	}
	out := make([]float64, n)
	for i := range out {
		lo := i * len(values) / n
		hi := (i + 1) * len(values) / n
		pick := values[lo]
		for _, v := range values[lo+1 : hi] {
			if abs64(v) > abs64(pick) {
				pick = v
			}
		}
		out[i] = pick
	}
	return out
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
