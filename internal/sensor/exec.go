package sensor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"sensor-readout.klederson.com/internal/config"
)

// CommandSource runs an external program and reads sample lines from its
// stdout, e.g. a vendor tool that dumps an IMU at its own rate.
type CommandSource struct {
	argv     []string
	category Category
	log      *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	stdout io.Closer
	wg     sync.WaitGroup
}

// NewCommandSource creates a source for the given argv.
func NewCommandSource(argv []string, category Category) *CommandSource {
	return &CommandSource{
		argv:     argv,
		category: category,
		log:      logrus.WithFields(logrus.Fields{"component": "exec", "cmd": argv[0]}),
	}
}

func (s *CommandSource) Name() string {
	return "exec " + strings.Join(s.argv, " ")
}

// Start launches the program.
func (s *CommandSource) Start(sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("exec source already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.WaitDelay = config.ExecWaitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("exec source: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("exec source: %w", err)
	}
	s.cancel = cancel
	s.stdout = stdout

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := scanLines(ctx, stdout, s.category, sink, s.log); err != nil && ctx.Err() == nil {
			s.log.WithError(err).Warn("read failed")
		}
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.log.WithError(err).Warn("command exited")
		}
	}()
	return nil
}

// Stop kills the program and waits for the reader to finish. The pipe is
// closed as well: a child the program spawned may still hold its write end.
func (s *CommandSource) Stop() {
	s.mu.Lock()
	cancel, stdout := s.cancel, s.stdout
	s.cancel, s.stdout = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		_ = stdout.Close()
		s.wg.Wait()
	}
}
