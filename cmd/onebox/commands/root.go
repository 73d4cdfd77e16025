// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the onebox CLI.
//
// The root command serves as the entry point and parent for all
// subcommands. It provides basic CLI metadata and organizes the command
// hierarchy.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onebox",
		Short: "Provision and configure a single server on Hetzner Cloud",
	}

	// Lifecycle commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Destroy())

	// Day-two commands
	cmd.AddCommand(Status())
	cmd.AddCommand(SSH())
	cmd.AddCommand(Logs())

	// Utility commands
	cmd.AddCommand(Validate())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
