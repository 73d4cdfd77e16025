package handlers

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onebox-dev/onebox/internal/provision"
	"github.com/onebox-dev/onebox/internal/ui/tui"
)

// tuiObserver feeds provisioner progress into the TUI event loop.
type tuiObserver struct {
	ch chan<- tea.Msg
}

func (o *tuiObserver) Printf(format string, v ...any) {
	o.ch <- tui.LogMsg{Line: fmt.Sprintf(format, v...)}
}

func (o *tuiObserver) Phase(kind string) {
	o.ch <- tui.PhaseMsg{Phase: phaseKey(kind)}
}

// phaseKey maps resource kinds to the dashboard's phase keys.
func phaseKey(kind string) string {
	if kind == provision.ResourceVolume {
		return "volume"
	}
	return kind
}

// msgWriter turns written lines into activity-feed events, so output
// from the standard logger and from ansible-playbook lands in the TUI
// instead of scrambling it.
type msgWriter struct {
	ch chan<- tea.Msg
}

func (w *msgWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.ch <- tui.LogMsg{Line: line}
		}
	}
	return len(p), nil
}
