package sampling

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sensor-readout.klederson.com/internal/sensor"
)

const testInterval = 5 * time.Millisecond

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestScheduler(latest Loader, consume Consumer, opts Options) (*Scheduler, *SerialExecutor) {
	exec := NewSerialExecutor()
	if opts.Interval == 0 {
		opts.Interval = testInterval
	}
	return NewScheduler(latest, consume, exec, opts), exec
}

func TestSchedulerSkipsUntilFirstSample(t *testing.T) {
	latest := sensor.NewLatest()
	var calls atomic.Int64
	s, exec := newTestScheduler(latest, func(sensor.RawSample) error {
		calls.Add(1)
		return nil
	}, Options{})
	defer exec.Close()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	waitFor(t, "skipped ticks", func() bool { return s.Skipped() >= 3 })
	if calls.Load() != 0 {
		t.Fatalf("consumer called %d times without a sample", calls.Load())
	}

	latest.Put(sensor.RawSample{Values: []float64{1}})
	waitFor(t, "first tick", func() bool { return calls.Load() > 0 })
}

func TestSchedulerConsumesNewestSample(t *testing.T) {
	latest := sensor.NewLatest()
	for i := 1; i <= 50; i++ {
		latest.Put(sensor.RawSample{Values: []float64{float64(i)}})
	}

	got := make(chan sensor.RawSample, 100)
	s, exec := newTestScheduler(latest, func(sample sensor.RawSample) error {
		got <- sample
		return nil
	}, Options{})
	defer exec.Close()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := <-got
	s.Stop()

	if first.Values[0] != 50 || first.Seq != 50 {
		t.Errorf("consumed value %v seq %d, want the newest (50)", first.Values[0], first.Seq)
	}
}

func TestSchedulerStartTwice(t *testing.T) {
	latest := sensor.NewLatest()
	s, exec := newTestScheduler(latest, func(sensor.RawSample) error { return nil }, Options{})
	defer exec.Close()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start: err = %v, want ErrAlreadyRunning", err)
	}
	s.Stop()
	if s.Running() {
		t.Fatal("running after Stop")
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("restart after Stop: %v", err)
	}
	s.Stop()
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	latest := sensor.NewLatest()
	s, exec := newTestScheduler(latest, func(sensor.RawSample) error { return nil }, Options{})
	defer exec.Close()

	// Never started
	s.Stop()
	s.Stop()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Stop()
	s.Stop()
	if s.Running() || s.Err() != nil {
		t.Errorf("running %v err %v", s.Running(), s.Err())
	}
}

func TestSchedulerStopWaitsForInFlightTick(t *testing.T) {
	latest := sensor.NewLatest()
	latest.Put(sensor.RawSample{Values: []float64{1}})

	var mu sync.Mutex
	var events []string
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	started := make(chan struct{}, 1)
	var calls atomic.Int64
	s, exec := newTestScheduler(latest, func(sensor.RawSample) error {
		if calls.Add(1) > 1 {
			record("extra tick")
			return nil
		}
		record("tick start")
		started <- struct{}{}
		time.Sleep(50 * time.Millisecond)
		record("tick end")
		return nil
	}, Options{})
	defer exec.Close()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-started
	s.Stop()
	record("stop returned")

	// Give a stray tick every chance to show up
	time.Sleep(10 * testInterval)

	mu.Lock()
	defer mu.Unlock()
	want := []string{"tick start", "tick end", "stop returned"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestSchedulerFailureEndsCycle(t *testing.T) {
	latest := sensor.NewLatest()
	latest.Put(sensor.RawSample{Values: []float64{1}})

	boom := errors.New("boom")
	var calls atomic.Int64
	failed := make(chan error, 1)
	s, exec := newTestScheduler(latest, func(sensor.RawSample) error {
		if calls.Add(1) == 3 {
			return boom
		}
		return nil
	}, Options{OnFailure: func(err error) { failed <- err }})
	defer exec.Close()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not end after a failing tick")
	}
	if err := <-failed; !errors.Is(err, boom) {
		t.Errorf("OnFailure got %v", err)
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err() = %v", s.Err())
	}
	if s.Running() {
		t.Error("still running after failure")
	}

	time.Sleep(10 * testInterval)
	if n := calls.Load(); n != 3 {
		t.Errorf("consumer called %d times, want 3", n)
	}
	if s.Ticks() != 2 {
		t.Errorf("successful ticks = %d, want 2", s.Ticks())
	}

	// Stopping a failed scheduler is a no-op
	s.Stop()
}

func TestSchedulerPanicEndsCycle(t *testing.T) {
	latest := sensor.NewLatest()
	latest.Put(sensor.RawSample{Values: []float64{1}})

	s, exec := newTestScheduler(latest, func(sample sensor.RawSample) error {
		_ = sample.Values[7]
		return nil
	}, Options{})
	defer exec.Close()

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-s.Done()
	if err := s.Err(); err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Errorf("Err() = %v, want a panic error", err)
	}
}

func TestSchedulerContextCancel(t *testing.T) {
	latest := sensor.NewLatest()
	s, exec := newTestScheduler(latest, func(sensor.RawSample) error { return nil }, Options{})
	defer exec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	<-s.Done()
	if s.Err() != nil {
		t.Errorf("Err() = %v after cancel", s.Err())
	}
}

func TestSerialExecutorRunsInOrder(t *testing.T) {
	exec := NewSerialExecutor()
	var (
		mu     sync.Mutex
		order  []int
		active atomic.Int32
		wg     sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		i := i
		exec.Execute(func() {
			defer wg.Done()
			if active.Add(1) != 1 {
				t.Error("tasks overlapped")
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			active.Add(-1)
		})
	}
	wg.Wait()
	exec.Close()

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}

	// Dropped, not blocked
	exec.Execute(func() { t.Error("ran after Close") })
}

func TestSchedulerNeedsExecutor(t *testing.T) {
	s := NewScheduler(sensor.NewLatest(), func(sensor.RawSample) error { return nil }, nil, Options{})
	if err := s.Start(context.Background()); !errors.Is(err, ErrNoExecutor) {
		t.Fatalf("Start without executor = %v, want ErrNoExecutor", err)
	}

	exec := NewSerialExecutor()
	defer exec.Close()
	s.SetExecutor(exec)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
