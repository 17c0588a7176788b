package app

import "time"

// TickMsg triggers a frame update.
type TickMsg time.Time

// RateMsg samples the source arrival counter.
type RateMsg time.Time

// runMsg carries a sampling task onto the update loop.
type runMsg struct {
	task func()
}

// SamplingFailedMsg reports the error that ended a session.
type SamplingFailedMsg struct {
	Session string
	Err     error
}

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// noticeExpiredMsg clears a transient notice unless a newer one replaced it.
type noticeExpiredMsg struct {
	id int
}
