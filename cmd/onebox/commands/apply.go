package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Apply returns the command for provisioning and configuring the stack.
//
// This command handles the complete lifecycle: planning infrastructure
// changes, creating or replacing resources, waiting for the server to
// accept SSH connections, and running the Ansible playbook when the
// server or the tracked files changed.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
//	--auto-approve: Apply the plan without asking for confirmation
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
func Apply() *cobra.Command {
	var configPath string
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the stack",
		Long: `Create or update the server and run the configuration pass.

Apply first shows the plan and asks for confirmation. It then reconciles
the SSH key, firewall, optional volume and server, writes the Ansible
inventory, waits until the server answers SSH, and runs the playbook if
the server was replaced or any tracked file changed.

When the server type, image, location or user data changed, a new server
is booted and the inventory is pointed at it before the old server is
deleted.

If no config file is specified, onebox.yaml in the current directory is
used. Run 'onebox init' to create one.

Examples:
  # Apply onebox.yaml in the current directory
  onebox apply

  # Apply a specific stack without the confirmation prompt
  onebox apply -c stacks/blog.yaml --auto-approve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, autoApprove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the confirmation prompt")

	return cmd
}
