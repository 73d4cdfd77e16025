package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/onebox-dev/onebox/internal/ui/benchmarks"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	if len(m.Logs) > 0 {
		renderActivity(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("onebox: %s", m.Stack)
	if m.Location != "" {
		title += fmt.Sprintf(" (%s)", m.Location)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done && m.Addr != "":
		status += readyStyle.Render(fmt.Sprintf("Ready at %s", m.Addr))
	case m.Done:
		status += readyStyle.Render("Ready")
	default:
		if name := activePhaseName(m); name != "" {
			status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render(name)
		} else {
			status += dimStyle.Render("Starting...")
		}
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 && !m.Done {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Apply"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		var icon string
		var style styleFunc
		switch {
		case phase.Err != nil:
			icon = crossMark
			style = sf(failedStyle)
		case phase.Done:
			icon = checkMark
			style = sf(readyStyle)
		case phase.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}

		detail := ""
		if phase.Key == "server" && m.Addr != "" {
			detail = "  " + dimStyle.Render(m.Addr)
		}
		fmt.Fprintf(b, "    %s %s%s\n", style(icon), style(phase.Name), detail)
	}
}

func renderActivity(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Activity"))
	b.WriteString("\n")
	for _, line := range m.Logs {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(line))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	pulse := ""
	if !m.Done && m.Err == nil {
		pulse = "  |  " + currentSpinner(m.SpinnerFrame) + " working"
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s%s  |  q: quit", elapsed, pulse)))
	b.WriteString("\n")
}

// Helper functions

func activePhaseName(m Model) string {
	for _, phase := range m.Phases {
		if phase.Active {
			return phase.Name
		}
	}
	return ""
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// calculateProgress weights each phase by its benchmark duration, so the
// bar does not crawl through the quick phases and then stall on configure.
func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}

	var total, done float64
	for _, phase := range m.Phases {
		weight := 1.0
		if secs, ok := benchmarks.DefaultTimings[phase.Key]; ok {
			weight = float64(secs)
		}
		total += weight
		if phase.Done {
			done += weight
		}
	}
	if total == 0 {
		return 0
	}

	progress := done / total
	if progress > 1.0 {
		progress = 1.0
	}
	return progress
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
