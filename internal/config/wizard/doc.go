// Package wizard provides the interactive configuration wizard for
// onebox init.
//
// It uses charmbracelet/huh for form-based input collection. The main
// entry point is Run, which walks through question groups and returns a
// Result. Use BuildConfig to convert the result into a Config, and
// WriteConfig plus Scaffold to generate onebox.yaml and the starter
// playbook.
package wizard
