package config

import (
	"fmt"
	"net"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/onebox-dev/onebox/internal/probe"
)

// ValidLocations contains all valid Hetzner Cloud datacenter locations.
// https://docs.hetzner.com/cloud/general/locations/
var ValidLocations = map[string]bool{
	"nbg1": true, // Nuremberg, Germany
	"fsn1": true, // Falkenstein, Germany
	"hel1": true, // Helsinki, Finland
	"ash":  true, // Ashburn, USA
	"hil":  true, // Hillsboro, USA
	"sin":  true, // Singapore
}

// ValidVolumeFormats contains the filesystems Hetzner can format a volume
// with.
var ValidVolumeFormats = map[string]bool{
	"ext4": true,
	"xfs":  true,
}

// stackNamePattern constrains the stack name so it is usable verbatim in
// Hetzner resource names and DNS labels.
var stackNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// maxNameLength leaves room for resource suffixes within Hetzner's
// 63-character name limit.
const maxNameLength = 50

// FieldError reports a configuration field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration and returns a *FieldError naming the
// offending field on failure. It assumes defaults have been applied.
func (c *Config) Validate() error {
	if c.Name == "" {
		return &FieldError{Field: "name", Reason: "is required"}
	}
	if !stackNamePattern.MatchString(c.Name) {
		return &FieldError{Field: "name", Reason: "must be lowercase alphanumeric with hyphens"}
	}
	if len(c.Name) > maxNameLength {
		return &FieldError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	if c.HCloudToken == "" {
		return &FieldError{Field: "hcloud_token", Reason: "is required (set in config or HCLOUD_TOKEN)"}
	}
	if c.Location == "" {
		return &FieldError{Field: "location", Reason: "is required"}
	}
	if !ValidLocations[c.Location] {
		return &FieldError{Field: "location", Reason: fmt.Sprintf("%q is not one of %v", c.Location, sortedLocationNames())}
	}

	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSSH(); err != nil {
		return err
	}
	if err := c.validateFirewall(); err != nil {
		return err
	}
	if err := c.validateVolume(); err != nil {
		return err
	}
	if err := c.validateDeploy(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	return c.validateState()
}

func (c *Config) validateServer() error {
	if c.Server.Type == "" {
		return &FieldError{Field: "server.type", Reason: "is required"}
	}
	if c.Server.Image == "" {
		return &FieldError{Field: "server.image", Reason: "is required"}
	}
	if c.Server.User == "" {
		return &FieldError{Field: "server.user", Reason: "is required"}
	}
	return nil
}

func (c *Config) validateSSH() error {
	if c.SSH.Port < 1 || c.SSH.Port > 65535 {
		return &FieldError{Field: "ssh.port", Reason: fmt.Sprintf("%d is not a valid port", c.SSH.Port)}
	}
	if c.SSH.PublicKey == "" {
		return &FieldError{Field: "ssh.public_key", Reason: "is required"}
	}
	if c.SSH.PrivateKey == "" {
		return &FieldError{Field: "ssh.private_key", Reason: "is required"}
	}
	return nil
}

func (c *Config) validateFirewall() error {
	sshAllowed := false
	for _, port := range c.Firewall.AllowedTCPPorts {
		if port < 1 || port > 65535 {
			return &FieldError{Field: "firewall.allowed_tcp_ports", Reason: fmt.Sprintf("%d is not a valid port", port)}
		}
		if port == c.SSH.Port {
			sshAllowed = true
		}
	}
	if !sshAllowed {
		return &FieldError{
			Field:  "firewall.allowed_tcp_ports",
			Reason: fmt.Sprintf("must include the SSH port %d or the probe and configuration pass cannot reach the server", c.SSH.Port),
		}
	}
	for _, cidr := range c.Firewall.SSHSource {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return &FieldError{Field: "firewall.ssh_source", Reason: fmt.Sprintf("%q is not a valid CIDR", cidr)}
		}
	}
	return nil
}

func (c *Config) validateVolume() error {
	if c.Volume == nil {
		return nil
	}
	// Hetzner volumes start at 10GB.
	if c.Volume.SizeGB < 10 {
		return &FieldError{Field: "volume.size_gb", Reason: fmt.Sprintf("must be at least 10, got %d", c.Volume.SizeGB)}
	}
	if c.Volume.Format != "" && !ValidVolumeFormats[c.Volume.Format] {
		return &FieldError{Field: "volume.format", Reason: fmt.Sprintf("%q is not ext4 or xfs", c.Volume.Format)}
	}
	return nil
}

func (c *Config) validateDeploy() error {
	if c.Deploy.Playbook == "" {
		return &FieldError{Field: "deploy.playbook", Reason: "is required"}
	}
	if c.Deploy.Inventory == "" {
		return &FieldError{Field: "deploy.inventory", Reason: "is required"}
	}
	if c.Deploy.Retries < 0 {
		return &FieldError{Field: "deploy.retries", Reason: "cannot be negative"}
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.MaxAttempts < 1 {
		return &FieldError{Field: "probe.max_attempts", Reason: "must be at least 1"}
	}
	if c.Probe.Timeout <= 0 {
		return &FieldError{Field: "probe.timeout", Reason: "must be positive"}
	}
	if c.Probe.Delay < 0 {
		return &FieldError{Field: "probe.delay", Reason: "cannot be negative"}
	}
	if c.Probe.InitialDelay < 0 {
		return &FieldError{Field: "probe.initial_delay", Reason: "cannot be negative"}
	}
	return nil
}

func (c *Config) validateState() error {
	switch c.State.Backend {
	case BackendLocal:
		if c.State.Path == "" {
			return &FieldError{Field: "state.path", Reason: "is required for the local backend"}
		}
	case BackendS3:
		if c.State.S3.Endpoint == "" {
			return &FieldError{Field: "state.s3.endpoint", Reason: "is required for the s3 backend"}
		}
		if c.State.S3.Region == "" {
			return &FieldError{Field: "state.s3.region", Reason: "is required for the s3 backend"}
		}
		if c.State.S3.Bucket == "" {
			return &FieldError{Field: "state.s3.bucket", Reason: "is required for the s3 backend"}
		}
		if c.State.S3.AccessKey == "" {
			return &FieldError{Field: "state.s3.access_key", Reason: "is required (set in config or ONEBOX_S3_ACCESS_KEY)"}
		}
		if c.State.S3.SecretKey == "" {
			return &FieldError{Field: "state.s3.secret_key", Reason: "is required (set in config or ONEBOX_S3_SECRET_KEY)"}
		}
	default:
		return &FieldError{Field: "state.backend", Reason: fmt.Sprintf("%q is not local or s3", c.State.Backend)}
	}
	return nil
}

// ApplyDefaults fills unset fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.Type == "" {
		c.Server.Type = "cx22"
	}
	if c.Server.Image == "" {
		c.Server.Image = "debian-12"
	}
	if c.Server.User == "" {
		c.Server.User = "root"
	}

	if c.SSH.Port == 0 {
		c.SSH.Port = 22
	}
	if c.SSH.PrivateKey == "" {
		c.SSH.PrivateKey = filepath.Join(DefaultStateDir, "id_rsa")
	}
	if c.SSH.PublicKey == "" {
		c.SSH.PublicKey = c.SSH.PrivateKey + ".pub"
	}

	if len(c.Firewall.AllowedTCPPorts) == 0 {
		c.Firewall.AllowedTCPPorts = []int{22, 80, 443}
	}

	if c.Deploy.Playbook == "" {
		c.Deploy.Playbook = filepath.Join("deploy", "site.yml")
	}
	if c.Deploy.Inventory == "" {
		c.Deploy.Inventory = filepath.Join(DefaultStateDir, "inventory.ini")
	}
	if c.Deploy.Retries == 0 {
		c.Deploy.Retries = 3
	}

	if c.Probe.InitialDelay == 0 {
		c.Probe.InitialDelay = probe.DefaultInitialDelay
	}
	if c.Probe.MaxAttempts == 0 {
		c.Probe.MaxAttempts = probe.DefaultMaxAttempts
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = probe.DefaultTimeout
	}
	if c.Probe.Delay == 0 {
		c.Probe.Delay = probe.DefaultDelay
	}

	if c.State.Backend == "" {
		c.State.Backend = BackendLocal
	}
	if c.State.Path == "" {
		c.State.Path = filepath.Join(DefaultStateDir, "state.json")
	}
}

func sortedLocationNames() []string {
	names := make([]string, 0, len(ValidLocations))
	for name := range ValidLocations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
