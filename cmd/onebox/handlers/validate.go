package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/fingerprint"
)

// Validate checks the configuration and the local environment without
// touching any cloud resource.
func Validate(_ context.Context, configPath string) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Printf("Configuration %s is valid.\n", configPath)
	fmt.Printf("  Stack:    %s\n", cfg.Name)
	fmt.Printf("  Location: %s\n", cfg.Location)
	fmt.Printf("  Server:   %s (%s)\n", cfg.Server.Type, cfg.Server.Image)

	if _, err := os.Stat(cfg.Deploy.Playbook); err != nil {
		return fmt.Errorf("playbook %s: %w", cfg.Deploy.Playbook, err)
	}
	if _, err := fingerprint.Collect(".", cfg.Deploy.TrackedPaths()); err != nil {
		return fmt.Errorf("tracked paths: %w", err)
	}
	fmt.Printf("  Tracked:  %s\n", strings.Join(cfg.Deploy.TrackedPaths(), ", "))

	results := checkAllPrereqs()
	for _, r := range results.Results {
		switch {
		case r.Found:
			fmt.Printf("  Found %s\n", r.Tool.Name)
		case !r.Tool.Required:
			fmt.Printf("  Missing %s (optional)\n", r.Tool.Name)
		}
	}
	if err := results.Error(); err != nil {
		return err
	}

	fmt.Println("\nAll checks passed.")
	return nil
}
