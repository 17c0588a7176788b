package series

import "math"

// Viewport is the visible part of the plotted data.
type Viewport struct {
	XMin, XMax int
	YMin, YMax float64
}

// DefaultViewport spans width ticks from zero with no Y range yet.
func DefaultViewport(width int) Viewport {
	return Viewport{
		XMin: 0,
		XMax: width,
		YMin: math.Inf(1),
		YMax: math.Inf(-1),
	}
}

// HasY reports whether any value has been fitted into the Y range.
func (v Viewport) HasY() bool {
	return v.YMin <= v.YMax
}

// Width returns the visible X span in ticks.
func (v Viewport) Width() int {
	return v.XMax - v.XMin
}

// slide advances the window once tick passes the right edge, keeping the
// width constant.
func (v *Viewport) slide(tick int) {
	if tick > v.XMax {
		v.XMin += tick - v.XMax
		v.XMax = tick
	}
}

// fit widens the Y range to include values. It never shrinks.
func (v *Viewport) fit(values []float64) {
	for _, x := range values {
		if x < v.YMin {
			v.YMin = x
		}
		if x > v.YMax {
			v.YMax = x
		}
	}
}

// Pan shifts the X range by delta ticks, clamped to [0, limit].
func (v Viewport) Pan(delta, limit int) Viewport {
	w := v.Width()
	v.XMin += delta
	if v.XMin+w > limit {
		v.XMin = limit - w
	}
	if v.XMin < 0 {
		v.XMin = 0
	}
	v.XMax = v.XMin + w
	return v
}

// Zoom scales the X width by factor around the right edge, keeping at least
// minWidth ticks.
func (v Viewport) Zoom(factor float64, minWidth int) Viewport {
	w := int(math.Round(float64(v.Width()) * factor))
	if w < minWidth {
		w = minWidth
	}
	v.XMin = v.XMax - w
	if v.XMin < 0 {
		v.XMin = 0
		v.XMax = w
	}
	return v
}
