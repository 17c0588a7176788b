package readout

import (
	"sync"

	"github.com/sirupsen/logrus"

	"sensor-readout.klederson.com/internal/sensor"
)

// HeadlessSurface is a Surface with no screen. It keeps the last layout and
// title and counts repaint requests; the record command and tests use it.
type HeadlessSurface struct {
	log *logrus.Entry

	mu       sync.Mutex
	specs    []sensor.ChannelSpec
	title    string
	repaints int
}

// NewHeadlessSurface creates a surface that logs layout and title changes.
func NewHeadlessSurface(log *logrus.Entry) *HeadlessSurface {
	if log == nil {
		log = logrus.WithField("component", "surface")
	}
	return &HeadlessSurface{log: log}
}

func (h *HeadlessSurface) ConfigureSeries(specs []sensor.ChannelSpec) {
	h.mu.Lock()
	h.specs = append([]sensor.ChannelSpec(nil), specs...)
	h.mu.Unlock()

	labels := make([]string, 0, len(specs))
	for _, s := range specs {
		if s.Visible {
			labels = append(labels, s.Label)
		}
	}
	h.log.WithFields(logrus.Fields{
		"channels": labels,
		"unit":     sensor.Unit(specs),
	}).Info("series configured")
}

func (h *HeadlessSurface) SetTitle(title string) {
	h.mu.Lock()
	changed := title != h.title
	h.title = title
	h.mu.Unlock()
	if changed {
		h.log.Info(title)
	}
}

func (h *HeadlessSurface) RequestRepaint() {
	h.mu.Lock()
	h.repaints++
	h.mu.Unlock()
}

// Specs returns the last configured layout.
func (h *HeadlessSurface) Specs() []sensor.ChannelSpec {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]sensor.ChannelSpec(nil), h.specs...)
}

// Title returns the last title.
func (h *HeadlessSurface) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

// Repaints returns the number of repaint requests.
func (h *HeadlessSurface) Repaints() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.repaints
}
