package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Validate returns the command for checking a configuration offline.
//
// It parses and validates the configuration, verifies that the playbook
// and every tracked path exist, and checks for the required client
// tools. No cloud resource is touched.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration without touching anything",
		Long: `Validate the stack configuration and the local environment.

Checks performed:
  - the configuration file parses and every field is valid
  - the playbook and all tracked paths exist
  - ansible-playbook is installed

Examples:
  # Validate onebox.yaml in the current directory
  onebox validate

  # Validate a specific file
  onebox validate -c stacks/blog.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")

	return cmd
}
