package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunApply wraps the apply flow with a Bubble Tea dashboard. applyFn runs
// the actual work, pushing PhaseMsg/LogMsg/AddrMsg progress onto the
// channel; its error ends the program. Returns the error the flow ended
// with, if any.
func RunApply(stack, location string, applyFn func(ch chan<- tea.Msg) error) error {
	m := NewApplyModel(stack, location)
	p := tea.NewProgram(m)

	go func() {
		ch := make(chan tea.Msg, 16)
		done := make(chan error, 1)
		go func() {
			defer close(ch)
			done <- applyFn(ch)
		}()

		for msg := range ch {
			p.Send(msg)
		}

		if err := <-done; err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal ui error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
