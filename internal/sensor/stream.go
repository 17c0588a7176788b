package sensor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// scanLines parses r line by line and feeds every valid sample to emit until
// the reader is exhausted or ctx is cancelled. Bad lines are skipped.
func scanLines(ctx context.Context, r io.Reader, fallback Category, emit Sink, log *logrus.Entry) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		s, err := ParseLine(scanner.Text(), fallback)
		if err != nil {
			if !errors.Is(err, ErrEmptyLine) {
				log.WithError(err).Debug("skipping line")
			}
			continue
		}
		emit(s)
	}
	return scanner.Err()
}

// StreamSource reads sample lines from a file or stdin. The reader is
// consumed by a single goroutine for the lifetime of the source; Stop
// detaches the sink and Start attaches a new one, so a restarted session
// continues where the stream left off.
type StreamSource struct {
	name     string
	r        io.Reader
	category Category
	log      *logrus.Entry

	mu      sync.Mutex
	sink    Sink
	started bool
	closed  bool
}

// NewStreamSource creates a source reading from r.
func NewStreamSource(name string, r io.Reader, category Category) *StreamSource {
	return &StreamSource{
		name:     name,
		r:        r,
		category: category,
		log:      logrus.WithFields(logrus.Fields{"component": "stream", "input": name}),
	}
}

func (s *StreamSource) Name() string {
	return "stream " + s.name
}

// Start attaches sink and launches the reader on first use.
func (s *StreamSource) Start(sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sink = sink
	if s.started {
		return nil
	}
	s.started = true

	go func() {
		err := scanLines(context.Background(), s.r, s.category, s.emit, s.log)
		if err != nil {
			s.log.WithError(err).Warn("read failed")
		} else {
			s.log.Info("end of stream")
		}
	}()
	return nil
}

func (s *StreamSource) emit(sample RawSample) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(sample)
	}
}

// Stop detaches the sink.
func (s *StreamSource) Stop() {
	s.mu.Lock()
	s.sink = nil
	s.mu.Unlock()
}

// Close stops the source and closes the underlying reader unless it is stdin.
func (s *StreamSource) Close() error {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok && s.r != io.Reader(os.Stdin) {
		return c.Close()
	}
	return nil
}
