package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sensor-readout.klederson.com/internal/app"
	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/readout"
	"sensor-readout.klederson.com/internal/sensor"
)

var (
	flagSource    string
	flagCategory  string
	flagRate      float64
	flagWindow    int
	flagMAC       string
	flagIface     string
	flagBroker    string
	flagTopic     string
	flagDevice    string
	flagBaud      int
	flagCmd       string
	flagFile      string
	flagExportDir string
	flagLogFile   string
	flagLogLevel  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sensor-readout",
		Short: "Sensor Readout - live terminal chart of a sensor stream",
		Long: `Sensor Readout samples one sensor at a fixed rate and draws its channels
as a scrolling, auto-scaling chart in the terminal.

Samples come from a synthetic demo generator, the RSSI of a Bluetooth or
WiFi link, an MQTT topic, a serial port, a file or stdin, or the output of
a command. Panning or zooming the chart stops sampling; export the session
as CSV or PNG with the E and P keys.`,
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagSource, "source", "demo", "Sample source: "+strings.Join(sensor.Kinds(), ", "))
	pf.StringVar(&flagCategory, "category", "accelerometer", "Sensor category for plain numeric input and the demo source")
	pf.Float64Var(&flagRate, "rate", config.SampleRate, "Sampling rate in samples per second")
	pf.IntVar(&flagWindow, "window", config.WindowTicks, "Visible window in samples")
	pf.StringVar(&flagMAC, "mac", "", "ble: device address to follow (default: first seen)")
	pf.StringVar(&flagIface, "iface", "", "wifi: wireless interface")
	pf.StringVar(&flagBroker, "broker", "", "mqtt: broker URL, e.g. tcp://localhost:1883")
	pf.StringVar(&flagTopic, "topic", config.MQTTTopic, "mqtt: topic to subscribe to")
	pf.StringVar(&flagDevice, "device", "", "serial: port, e.g. /dev/ttyUSB0")
	pf.IntVar(&flagBaud, "baud", config.SerialBaud, "serial: baud rate")
	pf.StringVar(&flagCmd, "cmd", "", "exec: command line whose output is read")
	pf.StringVar(&flagFile, "file", "", "stream: file to read (default stdin)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&flagExportDir, "export-dir", ".", "Directory for CSV and PNG exports")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")

	rootCmd.AddCommand(newRecordCmd(), newCategoriesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	// the TUI owns the terminal input
	if strings.EqualFold(flagSource, "stream") && (flagFile == "" || flagFile == "-") {
		return fmt.Errorf("stream source needs --file in the TUI; use 'sensor-readout record' to read stdin")
	}

	src, err := openSource()
	if err != nil {
		return err
	}
	defer closeSource(src)

	model := app.New(src, app.Options{
		Session:   sessionOptions(),
		ExportDir: flagExportDir,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start sampling with reference to the tea program
	if err := model.Start(p); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		if strings.EqualFold(flagSource, "ble") {
			fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./sensor-readout --source ble")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./sensor-readout")
			fmt.Fprintln(os.Stderr, "  ./sensor-readout --source demo    (no hardware needed)")
		}
		return err
	}

	_, err = p.Run()
	return err
}

func sourceConfig() (sensor.SourceConfig, error) {
	cat, ok := sensor.ParseCategory(flagCategory)
	if !ok {
		return sensor.SourceConfig{}, fmt.Errorf("unknown category %q (see 'sensor-readout categories')", flagCategory)
	}
	return sensor.SourceConfig{
		Kind:     flagSource,
		Category: cat,
		MAC:      flagMAC,
		Iface:    flagIface,
		Broker:   flagBroker,
		Topic:    flagTopic,
		Device:   flagDevice,
		Baud:     flagBaud,
		File:     flagFile,
		Command:  strings.Fields(flagCmd),
	}, nil
}

func openSource() (sensor.Source, error) {
	cfg, err := sourceConfig()
	if err != nil {
		return nil, err
	}
	return sensor.Open(cfg)
}

func closeSource(src sensor.Source) {
	src.Stop()
	if c, ok := src.(io.Closer); ok {
		_ = c.Close()
	}
}

func sessionOptions() readout.Options {
	interval := config.SampleInterval
	if flagRate > 0 {
		interval = time.Duration(float64(time.Second) / flagRate)
	}
	return readout.Options{
		Interval: interval,
		Window:   flagWindow,
	}
}

// setupLogging configures the global logrus logger. Logs go to --log-file
// when set, to fallback otherwise.
func setupLogging(fallback io.Writer) (func(), error) {
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if flagLogFile == "" {
		logrus.SetOutput(fallback)
		return func() {}, nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	return func() { _ = f.Close() }, nil
}
