package config

import "time"

const (
	// Sampling
	SampleRate     = 10                                      // Ticks per second
	SampleInterval = time.Second / time.Duration(SampleRate) // Time between two ticks
	WindowTicks    = 10 * SampleRate                         // Visible X range (10 seconds)
	XLabels        = 10                                      // One label per second at the default rate

	// Flat-line deflation: half = |v|*FlatSpreadFactor + FlatSpreadOffset
	FlatSpreadFactor = 0.5
	FlatSpreadOffset = 1.0

	// Rate meter
	RateInterval = time.Second // How often arrival counts are sampled
	RateHistory  = 5           // Seconds of arrival counts to average over
	RateSpark    = 60          // Seconds of arrival counts kept for the sparkline

	// Demo source
	DemoInterval  = 20 * time.Millisecond // Native event rate of the demo source (50 Hz)
	DemoFlatValue = 5.0                   // Constant emitted for scalar categories

	// Export
	ExportColumns = 3 // Channel columns in the CSV dump
	ExportWidth   = 1024
	ExportHeight  = 512

	// Serial / MQTT / exec defaults
	SerialBaud    = 115200
	MQTTTopic     = "sensors/readout"
	MQTTTimeout   = 10 * time.Second
	ExecWaitDelay = time.Second // Grace period for a killed command's output pipes

	// App
	AppName    = "SENSOR-READOUT"
	AppVersion = "1.0"
	TargetFPS  = 30
	NoticeTTL  = 3 * time.Second // How long a transient notice stays up
)

// Palette holds the series colors, cycled by channel index.
var Palette = []string{
	"#FF0000", // red
	"#FFFF00", // yellow
	"#0000FF", // blue
	"#00FF00", // green
	"#FF00FF", // magenta
	"#00FFFF", // cyan
}

// PaletteColor returns the palette entry for a channel index.
func PaletteColor(idx int) string {
	if idx < 0 {
		idx = -idx
	}
	return Palette[idx%len(Palette)]
}
