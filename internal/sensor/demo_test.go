package sensor

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDemoSourceEmitsAndStops(t *testing.T) {
	src := NewDemoSource(CategoryGyroscope, time.Millisecond)
	var n atomic.Int64
	var width atomic.Int64
	if err := src.Start(func(s RawSample) {
		n.Add(1)
		width.Store(int64(len(s.Values)))
	}); err != nil {
		t.Fatal(err)
	}
	if err := src.Start(func(RawSample) {}); err == nil {
		t.Error("second Start should fail")
	}

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	src.Stop()
	src.Stop()

	if n.Load() < 5 {
		t.Fatalf("only %d samples emitted", n.Load())
	}
	if width.Load() != 3 {
		t.Errorf("gyroscope demo emitted %d values, want 3", width.Load())
	}

	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if n.Load() != after {
		t.Error("samples emitted after Stop")
	}
}

func TestDemoSourceScalarIsFlat(t *testing.T) {
	src := NewDemoSource(CategoryProximity, time.Millisecond)
	s := src.sampleAt(1.25, AccuracyHigh)
	if len(s.Values) != 1 || s.Values[0] != 5.0 {
		t.Errorf("scalar demo sample = %v, want [5]", s.Values)
	}
}

func TestOpenUnknownKind(t *testing.T) {
	if _, err := Open(SourceConfig{Kind: "telepathy"}); err == nil {
		t.Fatal("expected error")
	}
	src, err := Open(SourceConfig{Kind: "demo", Category: CategoryLight})
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != "demo light" {
		t.Errorf("name = %q", src.Name())
	}
}
