package sensor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"
)

// BLESource reports the RSSI of a single Bluetooth Low Energy device as a
// signal strength sample. With no target MAC it locks onto the first device
// that advertises.
type BLESource struct {
	adapter *bluetooth.Adapter
	log     *logrus.Entry

	mu      sync.Mutex
	target  string
	name    string
	running bool
}

// NewBLESource creates a source following mac (empty = first device seen).
func NewBLESource(mac string) *BLESource {
	return &BLESource{
		adapter: bluetooth.DefaultAdapter,
		target:  strings.ToUpper(mac),
		log:     logrus.WithField("component", "ble"),
	}
}

func (s *BLESource) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.name != "":
		return fmt.Sprintf("ble %s (%s)", s.target, s.name)
	case s.target != "":
		return "ble " + s.target
	}
	return "ble (waiting for device)"
}

// Start enables the adapter and scans in a goroutine.
func (s *BLESource) Start(sink Sink) error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			mac := strings.ToUpper(result.Address.String())
			if !s.accept(mac, result) {
				return
			}
			sink(RawSample{
				Category: CategorySignalStrength,
				Values:   []float64{float64(result.RSSI)},
				Accuracy: AccuracyHigh,
			})
		})
		if err != nil {
			s.log.WithError(err).Warn("scan ended")
		}
	}()

	return nil
}

// accept reports whether a scan result belongs to the followed device,
// locking onto the first one seen when no target was given.
func (s *BLESource) accept(mac string, result bluetooth.ScanResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	if s.target == "" {
		s.target = mac
		s.log.WithField("mac", mac).Info("following first advertised device")
	}
	if mac != s.target {
		return false
	}
	if s.name == "" {
		s.name = deviceName(result)
	}
	return true
}

// deviceName uses the advertised local name, falling back to the
// manufacturer from the advertisement data.
func deviceName(result bluetooth.ScanResult) string {
	if name := result.LocalName(); name != "" {
		return name
	}
	mfrs := result.ManufacturerData()
	if len(mfrs) > 0 {
		return LookupManufacturer(mfrs[0].CompanyID)
	}
	return ""
}

// Stop halts scanning.
func (s *BLESource) Stop() {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if wasRunning {
		_ = s.adapter.StopScan()
	}
}
