// Package main is the entry point for the onebox CLI.
//
// onebox is a command-line tool for provisioning a single application
// server on Hetzner Cloud and configuring it with Ansible. It keeps a
// local state record of what it created, plans changes against that
// record, and re-runs the configuration pass only when the server or the
// tracked deployment files actually changed.
//
// Commands: init, plan, apply, destroy, validate, ssh, logs, status.
//
// For detailed usage information, run:
//
//	onebox --help
package main

import (
	"fmt"
	"os"

	"github.com/onebox-dev/onebox/cmd/onebox/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
