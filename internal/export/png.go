package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/series"
)

// ErrNotEnoughData is returned when a chart needs more points than recorded.
var ErrNotEnoughData = errors.New("not enough data to plot")

// WritePNG renders all plotted channels of a session as a line chart. The X
// axis is in seconds for a session sampled every interval; zero means the
// default rate.
func WritePNG(w io.Writer, channels []*series.Channel, title, unit string, interval time.Duration) error {
	cols := plotted(channels)
	if len(cols) == 0 || cols[0].Len() < 2 {
		return ErrNotEnoughData
	}

	ch := chart.Chart{
		Title:      title,
		Width:      config.ExportWidth,
		Height:     config.ExportHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "s"},
		YAxis:      chart.YAxis{Name: unit},
		Series:     lineSeries(cols, interval),
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// lineSeries converts channels to chart series with X in seconds, matching
// the on-screen axis.
func lineSeries(cols []*series.Channel, interval time.Duration) []chart.Series {
	if interval <= 0 {
		interval = config.SampleInterval
	}
	var list []chart.Series
	for _, c := range cols {
		xs := make([]float64, c.Len())
		ys := make([]float64, c.Len())
		for i := 0; i < c.Len(); i++ {
			p := c.At(i)
			xs[i] = float64(p.Tick) * interval.Seconds()
			ys[i] = p.Value
		}
		list = append(list, chart.ContinuousSeries{
			Name:    c.Spec.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(config.PaletteColor(c.Spec.ColorIndex)[1:]),
				StrokeWidth: 1.5,
			},
		})
	}
	return list
}
