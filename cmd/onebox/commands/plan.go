package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Plan returns the command for previewing infrastructure changes.
//
// The command diffs the desired configuration against the recorded state
// and prints what apply would do, without touching any resource.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would change",
		Long: `Show the changes apply would make, without making them.

The plan compares the configuration with the recorded state and with the
live resources, then lists every create, update, replace and delete. It
also reports whether the configuration pass would re-run.

Running plan twice in a row without touching anything always yields an
empty plan.

Examples:
  # Preview changes for onebox.yaml in the current directory
  onebox plan

  # Preview changes for a specific stack
  onebox plan -c stacks/blog.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")

	return cmd
}
