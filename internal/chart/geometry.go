package chart

import (
	"math"
	"strconv"
	"time"

	"sensor-readout.klederson.com/internal/config"
)

// Braille cells are 2 dots wide and 4 dots tall.
const (
	dotsPerCol = 2
	dotsPerRow = 4
)

// TickToDot maps a tick to a dot column in [0, dots).
// Ticks outside the window are clamped to the edges.
func TickToDot(tick, xMin, xMax, dots int) int {
	if dots <= 1 || xMax <= xMin {
		return 0
	}
	d := int(math.Round(float64(tick-xMin) / float64(xMax-xMin) * float64(dots-1)))
	return clamp(d, 0, dots-1)
}

// ValueToDot maps a value to a dot row in [0, dots), row 0 at the top.
func ValueToDot(v, yMin, yMax float64, dots int) int {
	if dots <= 1 || !(yMax > yMin) || math.IsNaN(v) {
		return dots / 2
	}
	d := int(math.Round((yMax - v) / (yMax - yMin) * float64(dots-1)))
	return clamp(d, 0, dots-1)
}

// RowValue is the value at the center of a text row, for axis labels.
func RowValue(row, rows int, yMin, yMax float64) float64 {
	if rows <= 1 {
		return yMax
	}
	return yMax - (yMax-yMin)*float64(row)/float64(rows-1)
}

// FormatValue renders an axis value compactly.
func FormatValue(v float64) string {
	a := math.Abs(v)
	switch {
	case a == 0:
		return "0"
	case a >= 10000 || a < 0.01:
		return strconv.FormatFloat(v, 'g', 3, 64)
	case a >= 100:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case a >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// SecondsLabel labels a tick in seconds since the session start, for a
// session sampled every interval. A zero interval means the default rate.
func SecondsLabel(tick int, interval time.Duration) string {
	at := (time.Duration(tick) * orDefault(interval)).Round(time.Millisecond)
	return strconv.FormatFloat(at.Seconds(), 'f', -1, 64) + "s"
}

// XAxisTitle describes the X resolution, e.g. "1 sample / 100 ms".
func XAxisTitle(interval time.Duration) string {
	ms := float64(orDefault(interval)) / float64(time.Millisecond)
	return "1 sample / " + strconv.FormatFloat(math.Round(ms*10)/10, 'f', -1, 64) + " ms"
}

func orDefault(interval time.Duration) time.Duration {
	if interval <= 0 {
		return config.SampleInterval
	}
	return interval
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
