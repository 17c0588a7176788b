package sampling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"sensor-readout.klederson.com/internal/sensor"
)

// ErrAlreadyRunning is returned by Start while a cycle is active.
var ErrAlreadyRunning = errors.New("scheduler already running")

// ErrNoExecutor is returned by Start when no executor was set.
var ErrNoExecutor = errors.New("scheduler has no executor")

// Loader gives access to the newest raw sample. *sensor.Latest implements it.
type Loader interface {
	Load() (sensor.RawSample, bool)
}

// Consumer handles one decimated sample on the executor.
type Consumer func(sensor.RawSample) error

// Options configure a Scheduler.
type Options struct {
	Interval time.Duration
	// OnFailure is called from the driver goroutine when a tick fails and
	// the cycle ends. Optional.
	OnFailure func(error)
}

// cycle is one Start..Stop run. Tasks capture their cycle, so a task queued
// by an old cycle can never act after that cycle was stopped.
type cycle struct {
	ctx    context.Context
	cancel context.CancelFunc
	exec   Executor
	done   chan struct{}
	err    error // written by the driver before done is closed

	gate   sync.Mutex // held while a tick body runs
	halted bool       // guarded by gate
}

// run executes task unless the cycle was halted. A failing or panicking
// task halts the cycle.
func (c *cycle) run(task func() error) (err error) {
	c.gate.Lock()
	defer c.gate.Unlock()
	if c.halted {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
		}
		if err != nil {
			c.halted = true
		}
	}()
	return task()
}

// Scheduler polls a Loader at a fixed interval and hands every sample to a
// Consumer on an Executor. Raw samples that arrive between two ticks are
// dropped; only the newest one is consumed.
type Scheduler struct {
	latest  Loader
	consume Consumer
	exec    Executor
	opts    Options
	log     *logrus.Entry

	mu  sync.Mutex
	cur *cycle

	ticks   atomic.Uint64
	skipped atomic.Uint64
}

// NewScheduler wires a scheduler. It does not start it.
func NewScheduler(latest Loader, consume Consumer, exec Executor, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	return &Scheduler{
		latest:  latest,
		consume: consume,
		exec:    exec,
		opts:    opts,
		log:     logrus.WithField("component", "scheduler"),
	}
}

// Start begins the periodic cycle. Starting a running scheduler is an error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil && !closed(s.cur.done) {
		return ErrAlreadyRunning
	}

	if s.exec == nil {
		return ErrNoExecutor
	}
	c := &cycle{exec: s.exec, done: make(chan struct{})}
	c.ctx, c.cancel = context.WithCancel(ctx)
	s.cur = c

	go s.drive(c)
	s.log.WithField("interval", s.opts.Interval).Debug("started")
	return nil
}

func (s *Scheduler) drive(c *cycle) {
	defer close(c.done)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
		}

		sample, ok := s.latest.Load()
		if !ok {
			// Nothing arrived yet since start
			s.skipped.Add(1)
			continue
		}

		result := make(chan error, 1)
		c.exec.Execute(func() {
			result <- c.run(func() error { return s.consume(sample) })
		})

		select {
		case err := <-result:
			if err != nil {
				c.err = err
				s.log.WithError(err).Error("tick failed, sampling stopped")
				if s.opts.OnFailure != nil {
					s.opts.OnFailure(err)
				}
				return
			}
			s.ticks.Add(1)
		case <-c.ctx.Done():
			return
		}
	}
}

// SetExecutor replaces the executor used by the next Start.
func (s *Scheduler) SetExecutor(exec Executor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exec = exec
}

// Stop ends the cycle. When it returns no tick is running and none will run
// again. Stopping an idle scheduler does nothing.
//
// Stop must not be called from inside a tick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cur
	s.mu.Unlock()
	if c == nil {
		return
	}

	c.cancel()
	// Waits for an in-flight tick body; later ones see halted and skip.
	c.gate.Lock()
	c.halted = true
	c.gate.Unlock()
	<-c.done
}

// Running reports whether a cycle is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil && !closed(s.cur.done)
}

// Done is closed when the current cycle ends, by Stop or by a failed tick.
// It returns nil before the first Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil
	}
	return s.cur.done
}

// Err returns the error that ended the last cycle, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	c := s.cur
	s.mu.Unlock()
	if c == nil || !closed(c.done) {
		return nil
	}
	return c.err
}

// Ticks returns the number of ticks consumed successfully.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Skipped returns the number of ticks skipped for lack of a sample.
func (s *Scheduler) Skipped() uint64 {
	return s.skipped.Load()
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
