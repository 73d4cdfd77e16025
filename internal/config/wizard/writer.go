package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/onebox-dev/onebox/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// Only fields that differ from defaults are written; the token is left to
// the HCLOUD_TOKEN environment variable.
func WriteConfig(cfg *config.Config, outputPath string) error {
	yamlBytes, err := yaml.Marshal(buildMinimalConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// minimalConfig represents the configuration for YAML output. Only
// contains fields that are essential or explicitly set by the user.
type minimalConfig struct {
	Name     string                 `yaml:"name"`
	Location string                 `yaml:"location"`
	Server   minimalServerConfig    `yaml:"server"`
	Firewall *minimalFirewallConfig `yaml:"firewall,omitempty"`
	Volume   *config.VolumeConfig   `yaml:"volume,omitempty"`
	Deploy   *minimalDeployConfig   `yaml:"deploy,omitempty"`
}

type minimalServerConfig struct {
	Type     string `yaml:"type"`
	Image    string `yaml:"image"`
	User     string `yaml:"user"`
	UserData string `yaml:"user_data,omitempty"`
}

type minimalFirewallConfig struct {
	SSHSource []string `yaml:"ssh_source,omitempty"`
}

type minimalDeployConfig struct {
	ExtraVars map[string]string `yaml:"extra_vars,omitempty"`
}

func buildMinimalConfig(cfg *config.Config) *minimalConfig {
	minCfg := &minimalConfig{
		Name:     cfg.Name,
		Location: cfg.Location,
		Server: minimalServerConfig{
			Type:     cfg.Server.Type,
			Image:    cfg.Server.Image,
			User:     cfg.Server.User,
			UserData: cfg.Server.UserData,
		},
	}

	if len(cfg.Firewall.SSHSource) > 0 {
		minCfg.Firewall = &minimalFirewallConfig{SSHSource: cfg.Firewall.SSHSource}
	}
	if cfg.Volume != nil {
		minCfg.Volume = cfg.Volume
	}
	if len(cfg.Deploy.ExtraVars) > 0 {
		minCfg.Deploy = &minimalDeployConfig{ExtraVars: cfg.Deploy.ExtraVars}
	}
	return minCfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string) string {
	return fmt.Sprintf(`# onebox configuration
# Generated by: onebox init
# Generated at: %s
#
# Required environment variable:
#   HCLOUD_TOKEN - Your Hetzner Cloud API token
#
# Usage:
#   export HCLOUD_TOKEN=<your-token>
#   onebox apply -c %s
`, time.Now().Format(time.RFC3339), outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
