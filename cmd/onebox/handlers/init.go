package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/onebox-dev/onebox/internal/config"
	"github.com/onebox-dev/onebox/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// runWizard runs the interactive question groups.
	runWizard = wizard.Run

	// buildWizardConfig turns wizard answers into a configuration.
	buildWizardConfig = wizard.BuildConfig

	// writeWizardConfig writes the configuration file.
	writeWizardConfig = wizard.WriteConfig

	// scaffoldDeploy writes the starter playbook skeleton.
	scaffoldDeploy = wizard.Scaffold

	// wizardFileExists checks whether the output file already exists.
	wizardFileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// detectPublicIP finds the operator's public address for the SSH
	// firewall rule.
	detectPublicIP = func(ctx context.Context) (string, error) {
		return newInfraClient("").GetPublicIP(ctx)
	}
)

// Init runs the configuration wizard, writes the result and scaffolds a
// starter playbook under deploy/.
func Init(ctx context.Context, outputPath string) error {
	if outputPath == "" {
		outputPath = config.DefaultPath
	}

	if wizardFileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Keeping the existing configuration.")
			return nil
		}
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	publicIP := ""
	if result.RestrictSSH {
		ip, err := detectPublicIP(ctx)
		if err != nil {
			log.Printf("Could not detect public IP, leaving SSH open: %v", err)
		} else {
			publicIP = ip
		}
	}

	cfg := buildWizardConfig(result, publicIP)

	if err := writeWizardConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := scaffoldDeploy("deploy"); err != nil {
		return fmt.Errorf("failed to scaffold playbook: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("onebox - one server, fully managed")
	fmt.Println("==================================")
	fmt.Println()
	fmt.Println("This wizard creates a stack configuration with sensible defaults.")
	fmt.Println("Answer a handful of questions, then run 'onebox apply'.")
	fmt.Println()
}

// printInitSuccess prints the summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Stack Summary")
	fmt.Println("-------------")
	fmt.Printf("  Name:     %s\n", cfg.Name)
	fmt.Printf("  Location: %s\n", cfg.Location)
	fmt.Printf("  Server:   %s (%s)\n", cfg.Server.Type, cfg.Server.Image)
	if cfg.Volume != nil {
		fmt.Printf("  Volume:   %d GB\n", cfg.Volume.SizeGB)
	}
	if len(cfg.Firewall.SSHSource) > 0 {
		fmt.Printf("  SSH from: %s\n", strings.Join(cfg.Firewall.SSHSource, ", "))
	}
	fmt.Println()
	fmt.Println("The starter playbook lives in deploy/site.yml, edit it freely.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. export HCLOUD_TOKEN=<your api token>")
	fmt.Println("  2. onebox plan")
	fmt.Println("  3. onebox apply")
}
