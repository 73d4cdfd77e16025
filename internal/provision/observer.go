package provision

import "log"

// Observer receives progress lines while resources are reconciled. The
// console implementation writes through the standard logger; the TUI
// installs its own to feed the event view.
type Observer interface {
	Printf(format string, v ...any)
}

// ConsoleObserver writes progress through the standard logger.
type ConsoleObserver struct{}

func (ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(format string, v ...any)

func (f ObserverFunc) Printf(format string, v ...any) {
	f(format, v...)
}

// PhaseObserver is an optional extension: observers implementing it are
// additionally told when work moves to the next resource kind.
type PhaseObserver interface {
	Observer
	Phase(kind string)
}
