package sensor

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sensor-readout.klederson.com/internal/config"
)

// ErrUnknownSource is returned by Open for an unsupported source kind.
var ErrUnknownSource = errors.New("unknown source")

// Sink receives samples from a Source. It is called from the source's own
// goroutine and must not block.
type Sink func(RawSample)

// Source produces raw samples at its own native rate.
type Source interface {
	// Name is a short human-readable description for titles and logs.
	Name() string
	// Start begins delivering samples to sink in the background.
	Start(sink Sink) error
	// Stop halts delivery. Safe to call more than once.
	Stop()
}

// SourceConfig selects and parameterizes a Source.
type SourceConfig struct {
	Kind     string   // demo, ble, wifi, mqtt, serial, stream, exec
	Category Category // Category for plain numeric lines and the demo source
	MAC      string   // ble: device to follow, empty = first seen
	Iface    string   // wifi: interface for iw
	Broker   string   // mqtt: broker URL
	Topic    string   // mqtt: topic to subscribe to
	Device   string   // serial: port path
	Baud     int      // serial: baud rate
	File     string   // stream: file path, empty or "-" = stdin
	Command  []string // exec: argv
}

// Kinds lists the supported source kinds.
func Kinds() []string {
	return []string{"demo", "ble", "wifi", "mqtt", "serial", "stream", "exec"}
}

// Open builds the Source described by cfg. It does not start it.
func Open(cfg SourceConfig) (Source, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "demo":
		cat := cfg.Category
		if cat == CategoryUnknown {
			cat = CategoryAccelerometer
		}
		return NewDemoSource(cat, config.DemoInterval), nil
	case "ble":
		return NewBLESource(cfg.MAC), nil
	case "wifi":
		if !WiFiSourceAvailable() {
			return nil, fmt.Errorf("wifi source: neither nmcli nor iw found in PATH")
		}
		return NewWiFiSource(cfg.Iface, time.Second), nil
	case "mqtt":
		if cfg.Broker == "" {
			return nil, fmt.Errorf("mqtt source: broker is required")
		}
		topic := cfg.Topic
		if topic == "" {
			topic = config.MQTTTopic
		}
		return NewMQTTSource(cfg.Broker, topic, cfg.Category), nil
	case "serial":
		if cfg.Device == "" {
			return nil, fmt.Errorf("serial source: device is required")
		}
		baud := cfg.Baud
		if baud <= 0 {
			baud = config.SerialBaud
		}
		return NewSerialSource(cfg.Device, baud, cfg.Category), nil
	case "stream":
		if cfg.File == "" || cfg.File == "-" {
			return NewStreamSource("stdin", os.Stdin, cfg.Category), nil
		}
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("stream source: %w", err)
		}
		return NewStreamSource(cfg.File, f, cfg.Category), nil
	case "exec":
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("exec source: command is required")
		}
		return NewCommandSource(cfg.Command, cfg.Category), nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownSource, cfg.Kind, strings.Join(Kinds(), ", "))
}
