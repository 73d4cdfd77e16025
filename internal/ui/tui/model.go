package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onebox-dev/onebox/internal/ui/benchmarks"
)

// maxLogLines bounds the activity feed.
const maxLogLines = 6

// Phase is one step of the apply flow as shown in the dashboard.
type Phase struct {
	Name   string
	Key    string
	Done   bool
	Active bool
	Err    error
}

// Model is the Bubble Tea model for the apply dashboard.
type Model struct {
	Stack    string
	Location string

	Phases []Phase
	Addr   string

	// Completed maps finished phase keys to their actual durations and
	// feeds the ETA scale.
	Completed  map[string]time.Duration
	PhaseStart time.Time

	EstimatedRemaining time.Duration
	PerformanceScale   float64

	Logs []string

	SpinnerFrame int
	StartTime    time.Time

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewApplyModel creates the model for the apply command TUI.
func NewApplyModel(stack, location string) Model {
	return Model{
		Stack:            stack,
		Location:         location,
		StartTime:        time.Now(),
		Completed:        make(map[string]time.Duration),
		PerformanceScale: 1.0,
		Phases: []Phase{
			{Name: "Plan", Key: "plan"},
			{Name: "SSH Key", Key: "ssh-key"},
			{Name: "Firewall", Key: "firewall"},
			{Name: "Volume", Key: "volume"},
			{Name: "Server", Key: "server"},
			{Name: "Inventory", Key: "inventory"},
			{Name: "Readiness Probe", Key: "probe"},
			{Name: "Configure", Key: "configure"},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case LogMsg:
		m.Logs = append(m.Logs, msg.Line)
		if len(m.Logs) > maxLogLines {
			m.Logs = m.Logs[len(m.Logs)-maxLogLines:]
		}

	case AddrMsg:
		m.Addr = msg.Addr

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// A later phase starting implies everything before it finished.
	for i := 0; i < idx; i++ {
		if !m.Phases[i].Done {
			m.finishPhase(i)
		}
	}

	if msg.Done {
		m.finishPhase(idx)
	} else if !m.Phases[idx].Active {
		m.Phases[idx].Active = true
		m.PhaseStart = time.Now()
	}

	if msg.Err != nil {
		m.Phases[idx].Err = msg.Err
	}
}

func (m *Model) finishPhase(i int) {
	phase := &m.Phases[i]
	if phase.Active && !m.PhaseStart.IsZero() {
		m.Completed[phase.Key] = time.Since(m.PhaseStart)
	}
	phase.Done = true
	phase.Active = false
}

func (m *Model) updateETA() {
	current := ""
	var phaseElapsed time.Duration
	for _, phase := range m.Phases {
		if phase.Active {
			current = phase.Key
			phaseElapsed = time.Since(m.PhaseStart)
			break
		}
	}
	if current == "" {
		m.EstimatedRemaining = 0
		return
	}

	m.PerformanceScale = benchmarks.PerformanceScale(current, phaseElapsed, m.Completed)
	m.EstimatedRemaining = benchmarks.EstimateRemaining(current, phaseElapsed, m.Completed, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
