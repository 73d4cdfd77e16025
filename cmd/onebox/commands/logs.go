package commands

import (
	"github.com/spf13/cobra"

	"github.com/onebox-dev/onebox/cmd/onebox/handlers"
)

// Logs returns the command for viewing application logs.
//
// It connects to the server over SSH and shows the docker compose logs
// of the deployed application.
//
// Optional flags:
//
//	--config, -c: Path to the stack configuration file (default: onebox.yaml)
//	--follow, -f: Stream new log lines as they appear
//	--tail: Number of lines to show from the end (default: 200)
func Logs() *cobra.Command {
	var configPath string
	var follow bool
	var tail int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show application logs from the server",
		Long: `Show the application logs of the deployed services.

The command connects over SSH and runs docker compose logs in the
application directory.

Examples:
  # Last 200 lines
  onebox logs

  # Stream logs continuously
  onebox logs -f

  # More history
  onebox logs --tail 1000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Logs(cmd.Context(), configPath, follow, tail)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: onebox.yaml)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new log lines as they appear")
	cmd.Flags().IntVar(&tail, "tail", 200, "Number of lines to show from the end of the logs")

	return cmd
}
