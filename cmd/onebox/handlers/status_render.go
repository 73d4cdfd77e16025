package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/onebox-dev/onebox/internal/state"
)

// Colors matching internal/ui/tui/styles.go palette.
var (
	statusColorGreen = lipgloss.Color("#22c55e")
	statusColorRed   = lipgloss.Color("#ef4444")
	statusColorDim   = lipgloss.Color("#6b7280")
	statusColorWhite = lipgloss.Color("#f9fafb")
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorWhite)

	statusDimStyle = lipgloss.NewStyle().
			Foreground(statusColorDim)

	statusGreenStyle = lipgloss.NewStyle().
				Foreground(statusColorGreen)

	statusRedStyle = lipgloss.NewStyle().
			Foreground(statusColorRed)
)

// renderStatus produces the styled state summary: stack title, record
// revision, one row per recorded resource and the last configuration run.
func renderStatus(name, location string, rec *state.Record) string {
	var b strings.Builder

	b.WriteString(statusTitleStyle.Render(fmt.Sprintf("Stack: %s (%s)", name, location)))
	b.WriteString("\n")

	if !rec.HasResources() {
		b.WriteString("\nNothing provisioned. Run 'onebox apply' to create the stack.\n")
		return b.String()
	}

	b.WriteString(statusDimStyle.Render(fmt.Sprintf("State: serial %d, updated %s", rec.Serial, rec.UpdatedAt.Format(time.RFC3339))))
	b.WriteString("\n\n")

	if rec.Server != nil {
		fmt.Fprintf(&b, "  server    %s  %s  (%s, %s)\n", rec.Server.Name, rec.Server.Addr, rec.Server.ServerType, rec.Server.Image)
	}
	if rec.Volume != nil {
		fmt.Fprintf(&b, "  volume    %s  %d GB\n", rec.Volume.Name, rec.Volume.SizeGB)
	}
	if rec.Firewall != nil {
		fmt.Fprintf(&b, "  firewall  %s\n", rec.Firewall.Name)
	}
	if rec.SSHKey != nil {
		fmt.Fprintf(&b, "  ssh key   %s\n", rec.SSHKey.Name)
	}

	if rec.Converge != nil {
		fmt.Fprintf(&b, "\nLast configured: %s (%d tracked files)\n", rec.Converge.RunAt.Format(time.RFC3339), len(rec.Converge.Fingerprints))
	} else {
		b.WriteString("\nLast configured: never\n")
	}

	return b.String()
}

// renderReachability styles the one-shot probe verdict.
func renderReachability(err error) string {
	if err != nil {
		return fmt.Sprintf("\n%s\n", statusRedStyle.Render(fmt.Sprintf("SSH: unreachable (%v)", err)))
	}
	return fmt.Sprintf("\n%s\n", statusGreenStyle.Render("SSH: reachable"))
}
