package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// SSH returns the command for opening a shell on the server.
//
// Without arguments it opens an interactive session using the system ssh
// binary. Any trailing arguments are run as a one-off remote command.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
func SSH() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ssh [command...]",
		Short: "Open a shell on the server",
		Long: `Open an SSH session to the provisioned server.

The address, user, port and key are taken from the configuration and the
state record, so there is nothing to remember. Trailing arguments are
executed as a single remote command instead of an interactive shell.

Examples:
  # Interactive shell
  onebox ssh

  # One-off command
  onebox ssh docker ps

  # Quoting works as usual
  onebox ssh 'df -h /'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.SSH(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")

	return cmd
}
