package series

import (
	"errors"
	"fmt"
	"math"

	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/sensor"
)

// ErrMalformedSample is returned when a sample does not fit the channel
// layout established by the first sample of the session.
var ErrMalformedSample = errors.New("malformed sample")

// Surface is the render hand-off: the store pushes layout and title changes
// through it and asks for a repaint after every tick. Implementations run on
// the same serialized context as OnTick.
type Surface interface {
	ConfigureSeries(specs []sensor.ChannelSpec)
	SetTitle(title string)
	RequestRepaint()
}

type storeState int

const (
	unconfigured storeState = iota
	configured
)

// Store keeps the plotted history of one session together with its
// viewport. It is not safe for concurrent use; every call must come from
// the sampling executor.
type Store struct {
	surface Surface
	width   int

	state        storeState
	category     sensor.Category
	vectorLength int
	visible      int
	channels     []*Channel
	viewport     Viewport
	tick         int
	title        string
}

// NewStore creates an unconfigured store with a window of width ticks.
func NewStore(surface Surface, width int) *Store {
	if width <= 0 {
		width = config.WindowTicks
	}
	return &Store{
		surface:  surface,
		width:    width,
		viewport: DefaultViewport(width),
	}
}

// OnTick consumes one decimated sample. The first call of a session derives
// the channel layout from it.
func (s *Store) OnTick(sample sensor.RawSample) error {
	for i, v := range sample.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: tick %d value %d is %v", ErrMalformedSample, s.tick, i, v)
		}
	}
	if s.state == unconfigured {
		if err := s.configure(sample); err != nil {
			return err
		}
	} else if len(sample.Values) != s.vectorLength {
		return fmt.Errorf("%w: tick %d has %d values, session started with %d",
			ErrMalformedSample, s.tick, len(sample.Values), s.vectorLength)
	}

	s.viewport.slide(s.tick)
	s.fitY(sample.Values[:s.visible])

	for i, ch := range s.channels {
		if ch.Spec.Visible {
			ch.add(s.tick, sample.Values[i])
		}
	}
	s.tick++

	s.title = sample.Accuracy.Label()
	s.surface.SetTitle(s.title)
	s.surface.RequestRepaint()
	return nil
}

func (s *Store) configure(sample sensor.RawSample) error {
	specs := sensor.Resolve(sample.Category, len(sample.Values))
	if len(specs) == 0 {
		return fmt.Errorf("%w: first sample has no values", ErrMalformedSample)
	}
	if len(sample.Values) < len(specs) {
		return fmt.Errorf("%w: %s needs %d values, got %d",
			ErrMalformedSample, sample.Category, len(specs), len(sample.Values))
	}

	s.category = sample.Category
	s.vectorLength = len(sample.Values)
	s.visible = len(specs)

	s.channels = make([]*Channel, 0, len(specs)+2)
	for _, spec := range specs {
		s.channels = append(s.channels, newChannel(spec))
	}

	// A single scalar that does not move yet would auto-fit to a zero-height
	// range; two muted channels around it give the axis some room.
	if len(specs) == 1 {
		v := sample.Values[0]
		half := flatHalf(v)
		for i, seed := range []float64{v + half, v - half} {
			mute := newChannel(sensor.ChannelSpec{
				Label:      specs[0].Label + " (mute)",
				Unit:       specs[0].Unit,
				ColorIndex: 1 + i,
				Visible:    false,
			})
			mute.add(0, seed)
			s.channels = append(s.channels, mute)
		}
	}

	all := make([]sensor.ChannelSpec, len(s.channels))
	for i, ch := range s.channels {
		all[i] = ch.Spec
	}
	s.surface.ConfigureSeries(all)
	s.state = configured
	return nil
}

// fitY widens the Y range. On the first tick a flat sample is padded so it
// is not drawn as a zero-height line. Only plotted components count: a light
// sample [100, 0, 0] plots one channel and is therefore flat.
func (s *Store) fitY(values []float64) {
	s.viewport.fit(values)
	if s.tick == 0 && isFlat(values) {
		half := flatHalf(values[0])
		s.viewport.YMin -= half
		s.viewport.YMax += half
	}
}

func flatHalf(v float64) float64 {
	return math.Abs(v)*config.FlatSpreadFactor + config.FlatSpreadOffset
}

func isFlat(values []float64) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Configured reports whether the first sample has been seen.
func (s *Store) Configured() bool {
	return s.state == configured
}

// Category returns the category the session was configured with.
func (s *Store) Category() sensor.Category {
	return s.category
}

// Channels returns all channels, placeholders included, in layout order.
func (s *Store) Channels() []*Channel {
	return s.channels
}

// Visible returns the channels that are plotted and exported.
func (s *Store) Visible() []*Channel {
	out := make([]*Channel, 0, s.visible)
	for _, ch := range s.channels {
		if ch.Spec.Visible {
			out = append(out, ch)
		}
	}
	return out
}

// Unit returns the physical unit of the plotted channels.
func (s *Store) Unit() string {
	if len(s.channels) == 0 {
		return ""
	}
	return s.channels[0].Spec.Unit
}

// Viewport returns the current visible range.
func (s *Store) Viewport() Viewport {
	return s.viewport
}

// Tick returns the next tick to be assigned, i.e. the number of ticks seen.
func (s *Store) Tick() int {
	return s.tick
}

// Title returns the status label set by the last tick.
func (s *Store) Title() string {
	return s.title
}

// Width returns the configured window width in ticks.
func (s *Store) Width() int {
	return s.width
}
