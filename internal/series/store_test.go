package series

import (
	"errors"
	"math"
	"testing"

	"sensor-readout.klederson.com/internal/sensor"
)

type recordingSurface struct {
	configured [][]sensor.ChannelSpec
	titles     []string
	repaints   int
}

func (r *recordingSurface) ConfigureSeries(specs []sensor.ChannelSpec) {
	r.configured = append(r.configured, specs)
}

func (r *recordingSurface) SetTitle(title string) {
	r.titles = append(r.titles, title)
}

func (r *recordingSurface) RequestRepaint() {
	r.repaints++
}

func accel(x, y, z float64) sensor.RawSample {
	return sensor.RawSample{
		Category: sensor.CategoryAccelerometer,
		Values:   []float64{x, y, z},
		Accuracy: sensor.AccuracyHigh,
	}
}

func TestStoreConfiguresOnFirstTick(t *testing.T) {
	surf := &recordingSurface{}
	s := NewStore(surf, 100)
	if s.Configured() {
		t.Fatal("new store is configured")
	}

	if err := s.OnTick(accel(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if !s.Configured() {
		t.Fatal("store not configured after first tick")
	}
	if len(surf.configured) != 1 {
		t.Fatalf("ConfigureSeries called %d times", len(surf.configured))
	}
	specs := surf.configured[0]
	if len(specs) != 3 || specs[0].Label != "X-axis" || specs[2].Label != "Z-axis" {
		t.Errorf("registered specs = %+v", specs)
	}
	for i, spec := range specs {
		if spec.ColorIndex != i {
			t.Errorf("spec %d color index %d", i, spec.ColorIndex)
		}
	}

	if err := s.OnTick(accel(4, 5, 6)); err != nil {
		t.Fatal(err)
	}
	if len(surf.configured) != 1 {
		t.Error("ConfigureSeries called again after configuration")
	}
	if surf.repaints != 2 {
		t.Errorf("repaints = %d, want 2", surf.repaints)
	}
	if s.Unit() != "m/s²" || s.Category() != sensor.CategoryAccelerometer {
		t.Errorf("unit %q category %v", s.Unit(), s.Category())
	}
}

func TestStoreTicksAreContiguous(t *testing.T) {
	s := NewStore(&recordingSurface{}, 10)
	for i := 0; i < 57; i++ {
		v := float64(i)
		if err := s.OnTick(accel(v, -v, v*2)); err != nil {
			t.Fatal(err)
		}
	}
	if s.Tick() != 57 {
		t.Errorf("tick = %d", s.Tick())
	}
	for ci, ch := range s.Channels() {
		if ch.Len() != 57 {
			t.Fatalf("channel %d has %d points", ci, ch.Len())
		}
		for i := 0; i < ch.Len(); i++ {
			if ch.At(i).Tick != i {
				t.Fatalf("channel %d point %d has tick %d", ci, i, ch.At(i).Tick)
			}
		}
	}
	if got := s.Channels()[1].At(3).Value; got != -3 {
		t.Errorf("channel 1 tick 3 = %v", got)
	}
}

func TestStoreSlidingWindow(t *testing.T) {
	const width = 20
	s := NewStore(&recordingSurface{}, width)
	prevMax := s.Viewport().XMax

	for i := 0; i < 100; i++ {
		if err := s.OnTick(accel(0, 0, float64(i%3))); err != nil {
			t.Fatal(err)
		}
		vp := s.Viewport()
		if vp.XMax < prevMax {
			t.Fatalf("tick %d: xMax went back from %d to %d", i, prevMax, vp.XMax)
		}
		prevMax = vp.XMax

		if i <= width {
			if vp.XMin != 0 || vp.XMax != width {
				t.Fatalf("tick %d: window moved early: %+v", i, vp)
			}
		} else {
			if vp.XMax != i || vp.XMin != i-width {
				t.Fatalf("tick %d: window = [%d, %d]", i, vp.XMin, vp.XMax)
			}
		}
		if vp.Width() != width {
			t.Fatalf("tick %d: width %d", i, vp.Width())
		}
	}
}

func TestStoreYRangeNeverShrinks(t *testing.T) {
	s := NewStore(&recordingSurface{}, 50)
	inputs := [][3]float64{{1, 2, 3}, {0, 0, 0}, {-5, 1, 1}, {2, 2, 2}, {10, 0, -1}, {0.5, 0.5, 0.5}}

	var prev Viewport
	for i, in := range inputs {
		if err := s.OnTick(accel(in[0], in[1], in[2])); err != nil {
			t.Fatal(err)
		}
		vp := s.Viewport()
		if i > 0 && (vp.YMin > prev.YMin || vp.YMax < prev.YMax) {
			t.Fatalf("tick %d: range shrank from [%v, %v] to [%v, %v]", i, prev.YMin, prev.YMax, vp.YMin, vp.YMax)
		}
		for _, v := range in {
			if v < vp.YMin || v > vp.YMax {
				t.Fatalf("tick %d: value %v outside [%v, %v]", i, v, vp.YMin, vp.YMax)
			}
		}
		prev = vp
	}
	if prev.YMin != -5 || prev.YMax != 10 {
		t.Errorf("final range [%v, %v], want [-5, 10]", prev.YMin, prev.YMax)
	}
}

func TestStoreFlatLineSingleChannel(t *testing.T) {
	surf := &recordingSurface{}
	s := NewStore(surf, 100)
	prox := sensor.RawSample{Category: sensor.CategoryProximity, Values: []float64{5.0}}

	for i := 0; i < 4; i++ {
		if err := s.OnTick(prox); err != nil {
			t.Fatal(err)
		}
	}

	chans := s.Channels()
	if len(chans) != 3 {
		t.Fatalf("got %d channels, want 1 visible + 2 placeholders", len(chans))
	}
	if len(surf.configured[0]) != 3 {
		t.Errorf("surface saw %d specs", len(surf.configured[0]))
	}

	hi, lo := chans[1], chans[2]
	if hi.Spec.Visible || lo.Spec.Visible {
		t.Fatal("placeholders must be invisible")
	}
	if hi.Len() != 1 || lo.Len() != 1 {
		t.Fatalf("placeholders have %d and %d points, want 1 each", hi.Len(), lo.Len())
	}
	if hi.At(0) != (Point{Tick: 0, Value: 8.5}) || lo.At(0) != (Point{Tick: 0, Value: 1.5}) {
		t.Errorf("placeholder seeds = %+v, %+v", hi.At(0), lo.At(0))
	}

	if len(s.Visible()) != 1 || s.Visible()[0].Len() != 4 {
		t.Errorf("visible channel has %d points", s.Visible()[0].Len())
	}

	vp := s.Viewport()
	if vp.YMin > 1.5 || vp.YMax < 8.5 {
		t.Errorf("Y range [%v, %v] does not include [1.5, 8.5]", vp.YMin, vp.YMax)
	}
}

func TestStoreFlatLineNegativeValue(t *testing.T) {
	s := NewStore(&recordingSurface{}, 100)
	if err := s.OnTick(sensor.RawSample{Category: sensor.CategoryTemperature, Values: []float64{-4}}); err != nil {
		t.Fatal(err)
	}
	// half = |-4|*0.5 + 1 = 3
	vp := s.Viewport()
	if vp.YMin != -7 || vp.YMax != -1 {
		t.Errorf("Y range [%v, %v], want [-7, -1]", vp.YMin, vp.YMax)
	}
}

func TestStoreFlatLineMultiChannelFirstTickOnly(t *testing.T) {
	s := NewStore(&recordingSurface{}, 100)
	if err := s.OnTick(accel(2, 2, 2)); err != nil {
		t.Fatal(err)
	}
	if len(s.Channels()) != 3 {
		t.Fatalf("multi-channel sensors get no placeholders, got %d channels", len(s.Channels()))
	}
	vp := s.Viewport()
	if vp.YMin != 0 || vp.YMax != 4 {
		t.Errorf("Y range [%v, %v], want [0, 4]", vp.YMin, vp.YMax)
	}

	// A flat sample later on is not padded again
	if err := s.OnTick(accel(20, 20, 20)); err != nil {
		t.Fatal(err)
	}
	vp = s.Viewport()
	if vp.YMin != 0 || vp.YMax != 20 {
		t.Errorf("Y range [%v, %v], want [0, 20]", vp.YMin, vp.YMax)
	}
}

func TestStoreNoFlatPaddingWhenVarying(t *testing.T) {
	s := NewStore(&recordingSurface{}, 100)
	if err := s.OnTick(accel(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	vp := s.Viewport()
	if vp.YMin != 1 || vp.YMax != 3 {
		t.Errorf("Y range [%v, %v], want [1, 3]", vp.YMin, vp.YMax)
	}
}

func TestStoreMalformedSample(t *testing.T) {
	s := NewStore(&recordingSurface{}, 100)
	if err := s.OnTick(accel(1, 2, 3)); err != nil {
		t.Fatal(err)
	}

	bad := sensor.RawSample{Category: sensor.CategoryAccelerometer, Values: []float64{1, 2}}
	err := s.OnTick(bad)
	if !errors.Is(err, ErrMalformedSample) {
		t.Fatalf("err = %v, want ErrMalformedSample", err)
	}
	if s.Tick() != 1 {
		t.Errorf("malformed sample advanced the tick to %d", s.Tick())
	}

	long := sensor.RawSample{Category: sensor.CategoryAccelerometer, Values: []float64{1, 2, 3, 4}}
	if err := s.OnTick(long); !errors.Is(err, ErrMalformedSample) {
		t.Errorf("longer vector: err = %v", err)
	}
}

func TestStoreMalformedFirstSample(t *testing.T) {
	s := NewStore(&recordingSurface{}, 100)
	short := sensor.RawSample{Category: sensor.CategoryGyroscope, Values: []float64{1}}
	if err := s.OnTick(short); !errors.Is(err, ErrMalformedSample) {
		t.Fatalf("err = %v", err)
	}
	if s.Configured() {
		t.Error("store configured from a malformed sample")
	}
	if err := s.OnTick(sensor.RawSample{Category: sensor.Category(500)}); !errors.Is(err, ErrMalformedSample) {
		t.Errorf("empty sample: err = %v", err)
	}
}

func TestStoreRejectsNonFiniteValues(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s := NewStore(&recordingSurface{}, 100)
		err := s.OnTick(sensor.RawSample{Category: sensor.CategoryProximity, Values: []float64{v}})
		if !errors.Is(err, ErrMalformedSample) {
			t.Errorf("first sample %v: err = %v, want ErrMalformedSample", v, err)
		}
		if s.Configured() {
			t.Errorf("first sample %v configured the store", v)
		}
	}

	s := NewStore(&recordingSurface{}, 100)
	if err := s.OnTick(accel(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if err := s.OnTick(accel(1, math.NaN(), 3)); !errors.Is(err, ErrMalformedSample) {
		t.Fatalf("err = %v, want ErrMalformedSample", err)
	}
	vp := s.Viewport()
	if !vp.HasY() || vp.YMin != 1 || vp.YMax != 3 {
		t.Errorf("Y range [%v, %v] changed by a rejected sample", vp.YMin, vp.YMax)
	}
	if s.Tick() != 1 {
		t.Errorf("tick = %d, want 1", s.Tick())
	}
}

func TestStoreLightKeepsVectorLength(t *testing.T) {
	// Light sensors report three values of which only the first is meaningful
	s := NewStore(&recordingSurface{}, 100)
	for i := 0; i < 3; i++ {
		if err := s.OnTick(sensor.RawSample{Category: sensor.CategoryLight, Values: []float64{float64(100 + i), 0, 0}}); err != nil {
			t.Fatal(err)
		}
	}
	if len(s.Visible()) != 1 {
		t.Fatalf("visible = %d", len(s.Visible()))
	}
	if got := s.Visible()[0].Values(); got[2] != 102 {
		t.Errorf("values = %v", got)
	}
	if vp := s.Viewport(); vp.YMin < 49 || vp.YMin > 50 {
		// half = 100*0.5+1 = 51 applied at tick 0; the zeros are not plotted
		t.Errorf("YMin = %v, want 49", vp.YMin)
	}
}

func TestStoreTitleFollowsAccuracy(t *testing.T) {
	surf := &recordingSurface{}
	s := NewStore(surf, 100)
	for _, acc := range []sensor.Accuracy{sensor.AccuracyHigh, sensor.AccuracyLow, sensor.Accuracy(-1)} {
		sample := accel(1, 2, 3)
		sample.Accuracy = acc
		if err := s.OnTick(sample); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"Sensor accuracy: high", "Sensor accuracy: low", "Sensor accuracy: unreliable"}
	for i, w := range want {
		if surf.titles[i] != w {
			t.Errorf("title %d = %q, want %q", i, surf.titles[i], w)
		}
	}
	if s.Title() != want[2] {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestDefaultViewportHasNoY(t *testing.T) {
	vp := DefaultViewport(100)
	if vp.HasY() {
		t.Error("default viewport has a Y range")
	}
	if !math.IsInf(vp.YMin, 1) || vp.XMax != 100 {
		t.Errorf("default viewport = %+v", vp)
	}
}
