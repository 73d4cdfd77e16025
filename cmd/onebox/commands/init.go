package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Init returns the command for creating a new stack configuration.
//
// This command runs an interactive wizard that asks a handful of
// questions and writes onebox.yaml plus a starter Ansible playbook.
//
// Optional flags:
//
//	--output, -o: Where to write the configuration (default: onebox.yaml)
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a stack configuration interactively",
		Long: `Create a new stack configuration through an interactive wizard.

The wizard asks about the stack name, server size, SSH access and the
optional data volume, then writes the configuration file and a starter
Ansible playbook under deploy/. Existing playbook files are never
overwritten.

Examples:
  # Create onebox.yaml in the current directory
  onebox init

  # Write the configuration somewhere else
  onebox init -o stacks/blog.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "onebox.yaml", "Path for the generated configuration file")

	return cmd
}
