package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes all recorded stack resources from Hetzner
// Cloud. Resources are deleted in reverse creation order: server, volume,
// firewall, SSH key.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
//	--auto-approve: Destroy without asking for confirmation
func Destroy() *cobra.Command {
	var configPath string
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the stack and all its resources",
		Long: `Destroy removes every recorded resource from Hetzner Cloud.

This deletes the server, the data volume, the firewall and the uploaded
SSH key, then clears the state record and removes the generated
inventory. Resources are deleted in reverse creation order.

If a deletion fails, the remaining resources stay in the record and a
later destroy picks up where this one stopped.

Example:
  onebox destroy -c onebox.yaml

WARNING: This operation is irreversible. Data on the server and the
volume is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, autoApprove)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip the confirmation prompt")

	return cmd
}
