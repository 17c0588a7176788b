package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// SerialSource reads sample lines from a serial port, the usual way a
// microcontroller board streams its sensors.
type SerialSource struct {
	device   string
	baud     int
	category Category
	log      *logrus.Entry

	mu     sync.Mutex
	port   *serial.Port
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSerialSource creates a source for the given port.
func NewSerialSource(device string, baud int, category Category) *SerialSource {
	return &SerialSource{
		device:   device,
		baud:     baud,
		category: category,
		log:      logrus.WithFields(logrus.Fields{"component": "serial", "device": device}),
	}
}

func (s *SerialSource) Name() string {
	return fmt.Sprintf("serial %s@%d", s.device, s.baud)
}

// Start opens the port and begins reading.
func (s *SerialSource) Start(sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return fmt.Errorf("serial source already started")
	}

	port, err := serial.OpenPort(&serial.Config{Name: s.device, Baud: s.baud})
	if err != nil {
		return fmt.Errorf("open %s: %w", s.device, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.port = port
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := scanLines(ctx, port, s.category, sink, s.log); err != nil && ctx.Err() == nil {
			s.log.WithError(err).Warn("read failed")
		}
	}()
	return nil
}

// Stop closes the port, which unblocks the reader, and waits for it.
func (s *SerialSource) Stop() {
	s.mu.Lock()
	port, cancel := s.port, s.cancel
	s.port, s.cancel = nil, nil
	s.mu.Unlock()

	if port == nil {
		return
	}
	cancel()
	_ = port.Close()
	s.wg.Wait()
}
