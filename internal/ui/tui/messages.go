// Package tui provides a Bubble Tea-based terminal UI for the apply flow.
package tui

// PhaseMsg reports progress of one apply phase.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// LogMsg carries one progress line for the activity feed.
type LogMsg struct{ Line string }

// AddrMsg reports the server address once it is known.
type AddrMsg struct{ Addr string }

// TickMsg is sent periodically to refresh spinner and ETA.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the flow is complete.
type DoneMsg struct{}
