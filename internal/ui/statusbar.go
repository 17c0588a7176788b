package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// State is the sampling state shown in the bars.
type State int

const (
	StateIdle State = iota
	StateSampling
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSampling:
		return "SAMPLING"
	case StateStopped:
		return "STOPPED"
	case StateFailed:
		return "FAILED"
	default:
		return "IDLE"
	}
}

// Badge renders the state in its color.
func (s State) Badge() string {
	switch s {
	case StateSampling:
		return StyleStatusSampling.Render(s.String())
	case StateFailed:
		return StyleStatusFailed.Render(s.String())
	default:
		return StyleStatusStopped.Render(s.String())
	}
}

// StatusInfo is the content of the bottom bar.
type StatusInfo struct {
	State      State
	Title      string  // accuracy label of the last tick
	Ticks      int     // samples plotted
	EventRate  float64 // raw samples per second from the source
	SampleRate float64 // decimated samples per second
	Notice     string  // transient message
	Err        error   // set when sampling failed
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	status := "[" + info.State.String() + "]"
	switch info.State {
	case StateSampling:
		status = StyleStatusSampling.Render(status)
	case StateFailed:
		status = StyleStatusFailed.Render(fmt.Sprintf("[FAILED: %v]", info.Err))
	default:
		status = StyleStatusStopped.Render(status)
	}

	text := fmt.Sprintf(" Ticks: %d  Events: %.1f/s  Sampling: %.0f/s  %s",
		info.Ticks, info.EventRate, info.SampleRate, decimation(info.EventRate, info.SampleRate))
	if info.Title != "" {
		text += "  " + info.Title
	}

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(text)
	if info.Notice != "" {
		content += "  " + StyleNotice.Render(info.Notice)
	}

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}

// decimation describes how many raw events feed one plotted sample.
func decimation(events, samples float64) string {
	if samples <= 0 || events <= 0 {
		return "Decimation: -"
	}
	return fmt.Sprintf("Decimation: %.1f:1", events/samples)
}
