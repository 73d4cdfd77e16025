package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/kballard/go-shellquote"
)

// runCommand executes a local binary with the process streams attached.
var runCommand = func(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// SSH opens a session on the server using the system ssh binary, so the
// user gets a real terminal with all its conveniences. Trailing args are
// run as a one-off remote command over the stack's own SSH client
// instead, no local ssh binary needed.
func SSH(ctx context.Context, configPath string, args []string) error {
	cfg, rec, err := loadStack(ctx, configPath)
	if err != nil {
		return err
	}
	if rec.Server == nil {
		return fmt.Errorf("no server recorded for stack %s, run 'onebox apply' first", cfg.Name)
	}

	if len(args) > 0 {
		client, err := newSSHClient(cfg, rec.Server.Addr)
		if err != nil {
			return err
		}
		return client.Stream(ctx, shellquote.Join(args...), os.Stdout, os.Stderr)
	}

	sshArgs := []string{
		"-i", cfg.SSH.PrivateKey,
		"-p", strconv.Itoa(cfg.SSH.Port),
		"-o", "StrictHostKeyChecking=accept-new",
		fmt.Sprintf("%s@%s", cfg.Server.User, rec.Server.Addr),
	}
	return runCommand(ctx, "ssh", sshArgs, os.Stdin, os.Stdout, os.Stderr)
}
