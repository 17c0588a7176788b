package app

import "sensor-readout.klederson.com/internal/sensor"

// chartSurface receives store callbacks on the update loop and keeps what
// View needs.
type chartSurface struct {
	specs []sensor.ChannelSpec
	title string
	dirty bool
}

func (s *chartSurface) ConfigureSeries(specs []sensor.ChannelSpec) {
	s.specs = append([]sensor.ChannelSpec(nil), specs...)
	s.dirty = true
}

func (s *chartSurface) SetTitle(title string) {
	s.title = title
}

func (s *chartSurface) RequestRepaint() {
	s.dirty = true
}

func (s *chartSurface) reset() {
	s.specs = nil
	s.title = ""
	s.dirty = true
}
