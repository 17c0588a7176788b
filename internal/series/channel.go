package series

import "sensor-readout.klederson.com/internal/sensor"

// Point is one plotted value.
type Point struct {
	Tick  int
	Value float64
}

// Channel is one plotted time series. Points are append-only for the
// lifetime of a session.
type Channel struct {
	Spec   sensor.ChannelSpec
	points []Point
}

func newChannel(spec sensor.ChannelSpec) *Channel {
	return &Channel{Spec: spec}
}

// NewChannel builds a channel holding the given points, for callers that
// assemble data outside a Store (exports of recorded data, tests).
func NewChannel(spec sensor.ChannelSpec, points ...Point) *Channel {
	return &Channel{Spec: spec, points: append([]Point(nil), points...)}
}

func (c *Channel) add(tick int, value float64) {
	c.points = append(c.points, Point{Tick: tick, Value: value})
}

// Len returns the number of stored points.
func (c *Channel) Len() int {
	return len(c.points)
}

// At returns the i-th point in insertion order.
func (c *Channel) At(i int) Point {
	return c.points[i]
}

// Points returns a copy of all points.
func (c *Channel) Points() []Point {
	return append([]Point(nil), c.points...)
}

// Values returns a copy of the point values.
func (c *Channel) Values() []float64 {
	out := make([]float64, len(c.points))
	for i, p := range c.points {
		out[i] = p.Value
	}
	return out
}

// Range returns the points with xMin <= tick <= xMax. Ticks are contiguous,
// so the lookup is an index calculation relative to the first point.
func (c *Channel) Range(xMin, xMax int) []Point {
	if len(c.points) == 0 || xMax < xMin {
		return nil
	}
	first := c.points[0].Tick
	lo := xMin - first
	hi := xMax - first + 1
	if lo < 0 {
		lo = 0
	}
	if hi > len(c.points) {
		hi = len(c.points)
	}
	if lo >= hi {
		return nil
	}
	return c.points[lo:hi]
}
