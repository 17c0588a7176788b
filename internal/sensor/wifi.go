package sensor

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// WiFiSource samples the signal strength of the currently associated access
// point. Prefers nmcli (no root needed), falls back to iw.
type WiFiSource struct {
	iface    string
	interval time.Duration
	useNmcli bool
	log      *logrus.Entry

	mu     sync.Mutex
	ssid   string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWiFiSource creates a WiFi link source. If iface is empty, auto-detects.
func NewWiFiSource(iface string, interval time.Duration) *WiFiSource {
	useNmcli := nmcliAvailable()
	if iface == "" && !useNmcli {
		iface = detectWiFiInterface()
	}
	return &WiFiSource{
		iface:    iface,
		interval: interval,
		useNmcli: useNmcli,
		log:      logrus.WithField("component", "wifi"),
	}
}

func (s *WiFiSource) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ssid != "" {
		return "wifi " + s.ssid
	}
	return "wifi"
}

// Start begins periodic link polls in a goroutine.
func (s *WiFiSource) Start(sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("wifi source already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx, sink)
	return nil
}

func (s *WiFiSource) loop(ctx context.Context, sink Sink) {
	defer s.wg.Done()
	for {
		if ssid, dbm, ok := s.poll(ctx); ok {
			s.mu.Lock()
			s.ssid = ssid
			s.mu.Unlock()
			sink(RawSample{
				Category: CategorySignalStrength,
				Values:   []float64{dbm},
				Accuracy: AccuracyHigh,
			})
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

func (s *WiFiSource) poll(ctx context.Context) (string, float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.useNmcli {
		out, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "ACTIVE,SSID,SIGNAL", "dev", "wifi", "list").Output()
		if err != nil {
			s.log.WithError(err).Debug("nmcli failed")
			return "", 0, false
		}
		return parseNmcliActive(string(out))
	}

	out, err := exec.CommandContext(ctx, "iw", "dev", s.iface, "link").Output()
	if err != nil {
		s.log.WithError(err).Debug("iw failed")
		return "", 0, false
	}
	return parseIWLink(string(out))
}

// parseNmcliActive picks the active row of nmcli terse output.
// Format per line: ACTIVE:SSID:SIGNAL, literal colons escaped as \:
func parseNmcliActive(output string) (string, float64, bool) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		// Split on unescaped colons: replace \: with placeholder, split, restore
		const placeholder = "\x00"
		escaped := strings.ReplaceAll(line, `\:`, placeholder)
		parts := strings.Split(escaped, ":")
		for i := range parts {
			parts[i] = strings.ReplaceAll(parts[i], placeholder, ":")
		}
		if len(parts) < 3 || strings.TrimSpace(parts[0]) != "yes" {
			continue
		}

		signal, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		// nmcli SIGNAL is 0-100 percentage; 100% ~ -30dBm, 0% ~ -100dBm
		return strings.TrimSpace(parts[1]), float64(-100 + signal*70/100), true
	}
	return "", 0, false
}

// parseIWLink parses the output of `iw dev <iface> link`.
func parseIWLink(output string) (string, float64, bool) {
	var ssid string
	var dbm float64
	found := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(trimmed, "SSID: ") {
			ssid = strings.TrimPrefix(trimmed, "SSID: ")
		} else if strings.HasPrefix(trimmed, "signal: ") {
			sigStr := strings.TrimPrefix(trimmed, "signal: ")
			sigStr = strings.TrimSpace(strings.TrimSuffix(sigStr, " dBm"))
			if v, err := strconv.ParseFloat(sigStr, 64); err == nil {
				dbm = v
				found = true
			}
		}
	}
	return ssid, dbm, found
}

// Stop halts polling.
func (s *WiFiSource) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
}

// WiFiSourceAvailable checks if nmcli or iw is available on the system.
func WiFiSourceAvailable() bool {
	return nmcliAvailable() || iwAvailable()
}

func nmcliAvailable() bool {
	_, err := exec.LookPath("nmcli")
	return err == nil
}

func iwAvailable() bool {
	_, err := exec.LookPath("iw")
	return err == nil
}

// detectWiFiInterface finds the first wireless interface via `iw dev`.
func detectWiFiInterface() string {
	out, err := exec.Command("iw", "dev").Output()
	if err != nil {
		return "wlan0"
	}
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Interface ") {
			return strings.TrimPrefix(line, "Interface ")
		}
	}
	return "wlan0"
}
