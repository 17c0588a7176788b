package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"sensor-readout.klederson.com/internal/chart"
	"sensor-readout.klederson.com/internal/config"
	"sensor-readout.klederson.com/internal/export"
	"sensor-readout.klederson.com/internal/readout"
	"sensor-readout.klederson.com/internal/sampling"
	"sensor-readout.klederson.com/internal/sensor"
	"sensor-readout.klederson.com/internal/series"
	"sensor-readout.klederson.com/internal/ui"
)

// Options configure the application.
type Options struct {
	Session   readout.Options
	ExportDir string
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	src     sensor.Source
	opts    Options
	program *tea.Program
	exec    sampling.Executor
	log     *logrus.Entry

	session  *readout.Session
	surface  *chartSurface
	overview *chart.Overview

	rates        *RateRing
	lastArrivals uint64

	// manual viewport after a pan or zoom
	view   series.Viewport
	panned bool
}

// AppModel is the root Bubble Tea model for the sensor readout.
type AppModel struct {
	width  int
	height int

	notice   string
	noticeID int

	keys keyMap
	help help.Model

	shared *shared
}

// New creates a new AppModel reading from src.
func New(src sensor.Source, opts Options) AppModel {
	if opts.Session.Interval <= 0 {
		opts.Session.Interval = config.SampleInterval
	}
	return AppModel{
		keys: defaultKeys(),
		help: help.New(),
		shared: &shared{
			src:      src,
			opts:     opts,
			log:      logrus.WithField("component", "app"),
			surface:  &chartSurface{},
			overview: chart.NewOverview(40, 3),
			rates:    NewRateRing(config.RateSpark),
		},
	}
}

// Start creates the first session on p's update loop. Must be called before
// p.Run().
func (m *AppModel) Start(p *tea.Program) error {
	m.shared.program = p
	m.shared.exec = NewProgramExecutor(p)
	return m.startSession()
}

func (m *AppModel) startSession() error {
	sh := m.shared
	sh.surface.reset()
	sh.overview.Reset()
	sh.rates.Reset()
	sh.lastArrivals = 0
	sh.panned = false

	var id string
	p := sh.program
	opts := sh.opts.Session
	opts.OnFailure = func(err error) {
		go p.Send(SamplingFailedMsg{Session: id, Err: err})
	}

	sess := readout.New(sh.src, sh.surface, opts)
	id = sess.ID.String()
	sh.session = sess
	if err := sess.Start(context.Background(), sh.exec); err != nil {
		sh.log.WithError(err).Error("session start failed")
		return err
	}
	return nil
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		rateCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		l := m.layout()
		m.shared.overview.Resize(l.innerW, l.overviewH)
		m.shared.surface.dirty = true
		m.help.Width = msg.Width
		return m, nil

	case runMsg:
		msg.task()
		return m, nil

	case TickMsg:
		if m.shared.surface.dirty && m.shared.session != nil {
			m.shared.overview.Update(m.shared.session.Store().Channels())
			m.shared.surface.dirty = false
		}
		return m, tickCmd()

	case RateMsg:
		if s := m.shared.session; s != nil {
			a := s.Arrivals()
			m.shared.rates.Push(float64(a-m.shared.lastArrivals) / config.RateInterval.Seconds())
			m.shared.lastArrivals = a
		}
		return m, rateCmd()

	case SamplingFailedMsg:
		if m.shared.session == nil || msg.Session != m.shared.session.ID.String() {
			return m, nil
		}
		return m, m.notify("Sampling stopped")

	case ExportDoneMsg:
		if msg.Err != nil {
			m.shared.log.WithError(msg.Err).Warn("export failed")
			return m, m.notify("Export failed: " + msg.Err.Error())
		}
		m.shared.log.WithField("path", msg.Path).Info("exported")
		return m, m.notify("Saved " + msg.Path)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.shared.session != nil {
			m.shared.session.Stop()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Restart):
		if m.shared.session != nil {
			m.shared.session.Stop()
		}
		if err := m.startSession(); err != nil {
			return m, m.notify("Restart failed: " + err.Error())
		}
		return m, m.notify("New session started")

	case key.Matches(msg, m.keys.Stop):
		if s := m.shared.session; s != nil && s.Running() {
			s.Stop()
			return m, m.notify("Sampling stopped")
		}

	case key.Matches(msg, m.keys.Export):
		return m.export("csv")

	case key.Matches(msg, m.keys.PNG):
		return m.export("png")

	case key.Matches(msg, m.keys.Left):
		return m.interact(func(v series.Viewport, limit int) series.Viewport {
			return v.Pan(-panStep(v), limit)
		})

	case key.Matches(msg, m.keys.Right):
		return m.interact(func(v series.Viewport, limit int) series.Viewport {
			return v.Pan(panStep(v), limit)
		})

	case key.Matches(msg, m.keys.ZoomIn):
		return m.interact(func(v series.Viewport, _ int) series.Viewport {
			return v.Zoom(0.5, config.XLabels)
		})

	case key.Matches(msg, m.keys.ZoomOut):
		return m.interact(func(v series.Viewport, _ int) series.Viewport {
			return v.Zoom(2, config.XLabels)
		})

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.interact(func(v series.Viewport, _ int) series.Viewport {
			return v.Zoom(0.8, config.XLabels)
		})
	case tea.MouseButtonWheelDown:
		return m.interact(func(v series.Viewport, _ int) series.Viewport {
			return v.Zoom(1.25, config.XLabels)
		})
	case tea.MouseButtonWheelLeft:
		return m.interact(func(v series.Viewport, limit int) series.Viewport {
			return v.Pan(-panStep(v), limit)
		})
	case tea.MouseButtonWheelRight:
		return m.interact(func(v series.Viewport, limit int) series.Viewport {
			return v.Pan(panStep(v), limit)
		})
	}
	return m, nil
}

// interact applies a pan or zoom. The first one on a drawn chart ends
// sampling; a chart with no data ignores it.
func (m AppModel) interact(apply func(v series.Viewport, limit int) series.Viewport) (tea.Model, tea.Cmd) {
	s := m.shared.session
	if s == nil || !s.Store().Configured() {
		return m, nil
	}

	var cmd tea.Cmd
	if s.Interact() {
		m.shared.log.WithField("session", s.ID.String()).Info("stopped by chart interaction")
		cmd = m.notify("Sampling stopped")
	}
	if !m.shared.panned {
		m.shared.view = s.Store().Viewport()
		m.shared.panned = true
	}
	m.shared.view = apply(m.shared.view, max(s.Store().Tick(), m.shared.view.Width()))
	return m, cmd
}

func panStep(v series.Viewport) int {
	return max(1, v.Width()/config.XLabels)
}

// export stops sampling and writes the session in the background.
func (m AppModel) export(kind string) (tea.Model, tea.Cmd) {
	s := m.shared.session
	if s == nil {
		return m, nil
	}
	st := s.Store()
	if !st.Configured() {
		return m, m.notify("Nothing to export yet")
	}

	var cmds []tea.Cmd
	if s.Running() {
		s.Stop()
		cmds = append(cmds, m.notify("Sampling stopped"))
	}

	channels := st.Visible()
	title, unit, interval := st.Title(), st.Unit(), s.Interval()
	path := filepath.Join(m.shared.opts.ExportDir, export.FileName(st.Category(), s.ID, kind))

	cmds = append(cmds, func() tea.Msg {
		var err error
		if kind == "png" {
			err = export.SavePNG(path, channels, title, unit, interval)
		} else {
			err = export.SaveCSV(path, channels)
		}
		return ExportDoneMsg{Path: path, Err: err}
	})
	return m, tea.Batch(cmds...)
}

func (m *AppModel) notify(text string) tea.Cmd {
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return tea.Tick(config.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// state derives the bar state from the current session.
func (m AppModel) state() ui.State {
	s := m.shared.session
	switch {
	case s == nil || s.Done() == nil:
		return ui.StateIdle
	case s.Err() != nil:
		return ui.StateFailed
	case s.Running():
		return ui.StateSampling
	default:
		return ui.StateStopped
	}
}

type layout struct {
	bodyH, chartW, sideW int
	innerW, plotH        int
	overviewH            int
}

func (m AppModel) layout() layout {
	var l layout
	l.bodyH = max(m.height-2, 10)

	l.chartW = max(m.width*3/4, 40)
	l.sideW = m.width - l.chartW
	if l.sideW < 24 {
		l.sideW = 24
		l.chartW = m.width - l.sideW
	}

	l.innerW = max(l.chartW-4, 5)
	inner := l.bodyH - 2
	// title and legend lines
	l.plotH = inner - 2
	if l.plotH > 16 {
		l.overviewH = 3
		l.plotH -= l.overviewH
	}
	l.plotH = max(l.plotH, 3)
	return l
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing sensor readout..."
	}
	s := m.shared.session
	if s == nil {
		return "No session"
	}
	st := s.Store()
	l := m.layout()
	state := m.state()

	menuBar := ui.RenderMenuBar(m.width, s.Source().Name(), state)

	vp := st.Viewport()
	if m.shared.panned {
		vp = m.shared.view
	}
	content := chart.Render(l.innerW, l.plotH, chart.Frame{
		Channels: st.Channels(),
		Viewport: vp,
		Unit:     st.Unit(),
		Interval: s.Interval(),
	})
	strip := ""
	if l.overviewH > 0 {
		strip = m.shared.overview.View()
		if m.help.ShowAll {
			strip = m.help.View(m.keys)
		}
	}
	legend := chart.RenderLegend(l.innerW, st.Channels(), st.Unit(), s.Interval())

	title := "Waiting for first sample"
	if st.Configured() {
		title = fmt.Sprintf("%s · %s", st.Category(), st.Title())
	}
	chartPanel := ui.RenderChartPanel(l.chartW, l.bodyH, title, content, strip, legend, state == ui.StateSampling)

	var readings []ui.Reading
	for _, ch := range st.Visible() {
		if ch.Len() == 0 {
			continue
		}
		readings = append(readings, ui.Reading{
			Label:      ch.Spec.Label,
			Unit:       ch.Spec.Unit,
			ColorIndex: ch.Spec.ColorIndex,
			Value:      ch.At(ch.Len() - 1).Value,
			Min:        vp.YMin,
			Max:        vp.YMax,
		})
	}
	category := "-"
	if st.Configured() {
		category = st.Category().String()
	}
	side := ui.RenderChannelPanel(readings, ui.SessionFields{
		Source:   s.Source().Name(),
		Category: category,
		Session:  s.ID.String()[:8],
		Arrivals: s.Arrivals(),
		Rates:    m.shared.rates.Values(),
	}, l.sideW, l.bodyH)

	sampleRate := 0.0
	if state == ui.StateSampling {
		sampleRate = 1 / m.shared.opts.Session.Interval.Seconds()
	}
	status := ui.RenderStatusBar(m.width, ui.StatusInfo{
		State:      state,
		Title:      st.Title(),
		Ticks:      st.Tick(),
		EventRate:  m.shared.rates.MeanLast(config.RateHistory),
		SampleRate: sampleRate,
		Notice:     m.notice,
		Err:        s.Err(),
	})

	return ui.ComposeLayout(menuBar, chartPanel, side, status)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func rateCmd() tea.Cmd {
	return tea.Tick(config.RateInterval, func(t time.Time) tea.Msg {
		return RateMsg(t)
	})
}
