package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Status returns the command for inspecting the stack.
//
// It prints the recorded resources and, when a server exists, checks
// whether it currently answers SSH and what the deployed services are
// doing.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
func Status() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the recorded stack and server health",
		Long: `Show what the stack currently looks like.

Prints the recorded resources with their IDs and the last configuration
run, then probes the server once over SSH and lists the state of the
deployed services.

Examples:
  # Status of onebox.yaml in the current directory
  onebox status

  # Status of a specific stack
  onebox status -c stacks/blog.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")

	return cmd
}
