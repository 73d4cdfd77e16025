package wizard

import (
	"context"
	"fmt"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Stack identity
	Name     string
	Location string

	// Server
	ServerType string
	Image      string

	// Access: restrict the SSH port to the operator's current public IP.
	RestrictSSH bool

	// Optional persistent data volume
	UseVolume    bool
	VolumeSizeGB int

	// Optional application repository passed to the playbook as app_repo.
	AppRepo string
}

// Run walks through the wizard question groups. The context is used for
// cancellation support (e.g., Ctrl+C).
func Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("stack identity: %w", err)
	}
	if err := runServerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if err := runAccessGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}
	if err := runVolumeGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("volume: %w", err)
	}
	if err := runDeployGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("deploy: %w", err)
	}

	return result, nil
}
