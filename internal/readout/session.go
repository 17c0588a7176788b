// Package readout binds one sensor source to a windowed store through the
// sampling scheduler. A Session is one run: it starts at tick 0 and, once
// stopped, is never resumed. Restarting means creating a new Session.
package readout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/sampling"
	"sensor-readout.klederson.com/internal/sensor"
	"sensor-readout.klederson.com/internal/series"
)

// Options configure a Session.
type Options struct {
	Interval  time.Duration // Sampling period, default config.SampleInterval
	Window    int           // Visible ticks, default config.WindowTicks
	Limit     int           // Stop after this many ticks, 0 = unlimited
	OnFailure func(error)   // Called from the driver when a tick fails
}

// Session is one sampling run over one source.
type Session struct {
	ID uuid.UUID

	src    sensor.Source
	latest *sensor.Latest
	store  *series.Store
	sched  *sampling.Scheduler
	opts   Options
	log    *logrus.Entry

	limitOnce sync.Once
	limitHit  chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// New creates an idle session. surface receives layout, title and repaint
// calls on the executor passed to Start.
func New(src sensor.Source, surface series.Surface, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = config.SampleInterval
	}
	if opts.Window <= 0 {
		opts.Window = config.WindowTicks
	}

	s := &Session{
		ID:       uuid.New(),
		src:      src,
		latest:   sensor.NewLatest(),
		store:    series.NewStore(surface, opts.Window),
		opts:     opts,
		limitHit: make(chan struct{}),
	}
	s.log = logrus.WithFields(logrus.Fields{
		"component": "session",
		"session":   s.ID.String(),
		"source":    src.Name(),
	})
	s.sched = sampling.NewScheduler(s.latest, s.consume, nil, sampling.Options{
		Interval:  opts.Interval,
		OnFailure: s.failed,
	})
	return s
}

// consume runs on the executor. Ticks posted after the limit was reached
// but before Run stopped the cycle are dropped.
func (s *Session) consume(sample sensor.RawSample) error {
	if s.opts.Limit > 0 && s.store.Tick() >= s.opts.Limit {
		return nil
	}
	if err := s.store.OnTick(sample); err != nil {
		return err
	}
	if s.opts.Limit > 0 && s.store.Tick() >= s.opts.Limit {
		s.limitOnce.Do(func() { close(s.limitHit) })
	}
	return nil
}

func (s *Session) failed(err error) {
	s.log.WithError(err).Warn("session failed")
	if s.opts.OnFailure != nil {
		s.opts.OnFailure(err)
	}
}

// Start subscribes to the source and starts sampling on exec. A session
// can be started once.
func (s *Session) Start(ctx context.Context, exec sampling.Executor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return sampling.ErrAlreadyRunning
	}

	if err := s.src.Start(s.latest.Put); err != nil {
		return fmt.Errorf("start %s: %w", s.src.Name(), err)
	}
	s.sched.SetExecutor(exec)
	if err := s.sched.Start(ctx); err != nil {
		s.src.Stop()
		return err
	}
	s.started = true
	s.log.WithField("interval", s.opts.Interval).Info("session started")
	return nil
}

// Stop halts sampling and unsubscribes from the source. When it returns no
// tick is running. Safe to call repeatedly; must not be called from inside
// a tick.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.sched.Stop()
	s.src.Stop()
	s.log.WithFields(logrus.Fields{
		"ticks":    s.store.Tick(),
		"arrivals": s.latest.Arrivals(),
	}).Info("session stopped")
}

// Interact reports a pan or zoom on the chart. Once the session has drawn
// anything, interaction ends sampling for good. It returns true if this
// call stopped the session. Call it from the executor.
func (s *Session) Interact() bool {
	if !s.store.Configured() || !s.Running() {
		return false
	}
	s.Stop()
	return true
}

// Run starts the session and blocks until ctx is done, the tick limit is
// reached or a tick fails. The session is stopped on return.
func (s *Session) Run(ctx context.Context, exec sampling.Executor) error {
	if err := s.Start(ctx, exec); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-s.limitHit:
	case <-s.sched.Done():
	}
	s.Stop()
	return s.Err()
}

// Running reports whether the sampling cycle is active.
func (s *Session) Running() bool {
	return s.sched.Running()
}

// Done is closed when sampling ends. Nil before Start.
func (s *Session) Done() <-chan struct{} {
	return s.sched.Done()
}

// Err returns the tick error that ended the session, if any.
func (s *Session) Err() error {
	return s.sched.Err()
}

// Interval returns the sampling period of the session.
func (s *Session) Interval() time.Duration {
	return s.opts.Interval
}

// Store exposes the session data. Read it only from the executor.
func (s *Session) Store() *series.Store {
	return s.store
}

// Source returns the subscribed source.
func (s *Session) Source() sensor.Source {
	return s.src
}

// Arrivals returns the number of raw samples received from the source.
func (s *Session) Arrivals() uint64 {
	return s.latest.Arrivals()
}

// Ticks returns the number of samples consumed.
func (s *Session) Ticks() uint64 {
	return s.sched.Ticks()
}
