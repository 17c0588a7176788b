package sensor

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"sensor-readout.klederson.com/internal/config"
)

type demoAxis struct {
	base      float64
	amplitude float64
	freq      float64 // radians per second
	phase     float64
	noise     float64
}

// DemoSource generates synthetic readings for demo mode. It emits faster than
// the sampling rate so decimation is visible. Scalar categories produce a
// constant value.
type DemoSource struct {
	category Category
	interval time.Duration
	axes     []demoAxis

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// demoProfile returns base level and swing for a category.
func demoProfile(c Category) (base, swing float64) {
	switch c {
	case CategoryAccelerometer, CategoryGravity:
		return 0, 9.81
	case CategoryLinearAcceleration:
		return 0, 2
	case CategoryMagneticField:
		return 20, 40
	case CategoryGyroscope:
		return 0, 1.5
	case CategoryOrientation:
		return 180, 90
	case CategoryRotationVector:
		return 0, 1
	}
	return 0, 10
}

// NewDemoSource creates a synthetic source for the given category.
func NewDemoSource(category Category, interval time.Duration) *DemoSource {
	n := len(Resolve(category, 3))
	if n == 0 {
		n = 3
	}

	base, swing := demoProfile(category)
	axes := make([]demoAxis, n)
	for i := range axes {
		axes[i] = demoAxis{
			base:      base,
			amplitude: swing * (0.3 + rand.Float64()*0.7),
			freq:      0.5 + rand.Float64()*2,
			phase:     rand.Float64() * 2 * math.Pi,
			noise:     swing * 0.05,
		}
	}
	return &DemoSource{category: category, interval: interval, axes: axes}
}

func (s *DemoSource) Name() string {
	return fmt.Sprintf("demo %s", s.category)
}

// Start begins emitting samples.
func (s *DemoSource) Start(sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("demo source already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx, sink)
	return nil
}

func (s *DemoSource) loop(ctx context.Context, sink Sink) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	acc := AccuracyHigh
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// Accuracy wanders now and then, like a magnetometer needing calibration
			if rand.Float64() < 0.01 {
				acc = Accuracy(rand.Intn(4))
			}
			sink(s.sampleAt(now.Sub(start).Seconds(), acc))
		}
	}
}

func (s *DemoSource) sampleAt(t float64, acc Accuracy) RawSample {
	values := make([]float64, len(s.axes))
	scalar := len(Resolve(s.category, len(s.axes))) == 1
	for i, a := range s.axes {
		if scalar {
			values[i] = config.DemoFlatValue
			continue
		}
		values[i] = a.base + a.amplitude*math.Sin(t*a.freq+a.phase) + (rand.Float64()-0.5)*a.noise
	}
	return RawSample{Category: s.category, Values: values, Accuracy: acc}
}

// Stop halts the generator and waits for its goroutine to exit.
func (s *DemoSource) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
}
