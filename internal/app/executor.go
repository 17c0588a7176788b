package app

import tea "github.com/charmbracelet/bubbletea"

// ProgramExecutor runs sampling tasks inside the Bubble Tea update loop, so
// ticks are serialized with key handling and rendering.
type ProgramExecutor struct {
	p *tea.Program
}

// NewProgramExecutor wraps p.
func NewProgramExecutor(p *tea.Program) *ProgramExecutor {
	return &ProgramExecutor{p: p}
}

// Execute queues task on the update loop. Send blocks until the loop takes
// the message, so it is done from its own goroutine.
func (e *ProgramExecutor) Execute(task func()) {
	go e.p.Send(runMsg{task: task})
}
