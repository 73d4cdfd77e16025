package handlers

import (
	"context"
	"fmt"
	"os"
)

// Logs shows the docker compose logs of the deployed application.
func Logs(ctx context.Context, configPath string, follow bool, tail int) error {
	cfg, rec, err := loadStack(ctx, configPath)
	if err != nil {
		return err
	}
	if rec.Server == nil {
		return fmt.Errorf("no server recorded for stack %s, run 'onebox apply' first", cfg.Name)
	}

	client, err := newSSHClient(cfg, rec.Server.Addr)
	if err != nil {
		return err
	}

	command := fmt.Sprintf("cd %s && docker compose logs --tail %d", appDir, tail)
	if follow {
		command += " --follow"
	}

	return client.Stream(ctx, command, os.Stdout, os.Stderr)
}
