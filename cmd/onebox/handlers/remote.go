package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/platform/ssh"
)

// appDir is where the starter playbook deploys the application. The
// logs and status commands look there for the compose project.
const appDir = "/opt/app"

// remoteRunner is the part of the SSH client the handlers use.
type remoteRunner interface {
	Execute(ctx context.Context, command string) (string, error)
	Stream(ctx context.Context, command string, stdout, stderr io.Writer) error
}

// newSSHClient connects to the server with the stack's key material.
var newSSHClient = func(cfg *config.Config, addr string) (remoteRunner, error) {
	keyData, err := os.ReadFile(cfg.SSH.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", cfg.SSH.PrivateKey, err)
	}
	client, err := ssh.NewClient(&ssh.Config{
		Host:       addr,
		Port:       cfg.SSH.Port,
		User:       cfg.Server.User,
		PrivateKey: keyData,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
