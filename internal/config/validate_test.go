package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes validation; tests mutate one
// field at a time.
func validConfig() *Config {
	cfg := &Config{
		Name:        "mybox",
		HCloudToken: "test-token",
		Location:    "nbg1",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing name", func(c *Config) { c.Name = "" }, "name"},
		{"uppercase name", func(c *Config) { c.Name = "MyBox" }, "name"},
		{"name with dots", func(c *Config) { c.Name = "my.box" }, "name"},
		{"overlong name", func(c *Config) { c.Name = "a-very-long-stack-name-that-exceeds-the-allowed-size-limit" }, "name"},
		{"missing token", func(c *Config) { c.HCloudToken = "" }, "hcloud_token"},
		{"missing location", func(c *Config) { c.Location = "" }, "location"},
		{"unknown location", func(c *Config) { c.Location = "mars1" }, "location"},
		{"missing server type", func(c *Config) { c.Server.Type = "" }, "server.type"},
		{"missing image", func(c *Config) { c.Server.Image = "" }, "server.image"},
		{"missing user", func(c *Config) { c.Server.User = "" }, "server.user"},
		{"bad ssh port", func(c *Config) { c.SSH.Port = 70000 }, "ssh.port"},
		{"missing public key", func(c *Config) { c.SSH.PublicKey = "" }, "ssh.public_key"},
		{"missing private key", func(c *Config) { c.SSH.PrivateKey = "" }, "ssh.private_key"},
		{"bad firewall port", func(c *Config) { c.Firewall.AllowedTCPPorts = []int{22, 0} }, "firewall.allowed_tcp_ports"},
		{"ssh port not allowed", func(c *Config) { c.Firewall.AllowedTCPPorts = []int{80, 443} }, "firewall.allowed_tcp_ports"},
		{"bad ssh source", func(c *Config) { c.Firewall.SSHSource = []string{"not-a-cidr"} }, "firewall.ssh_source"},
		{"volume too small", func(c *Config) { c.Volume = &VolumeConfig{SizeGB: 5} }, "volume.size_gb"},
		{"bad volume format", func(c *Config) { c.Volume = &VolumeConfig{SizeGB: 10, Format: "btrfs"} }, "volume.format"},
		{"missing playbook", func(c *Config) { c.Deploy.Playbook = "" }, "deploy.playbook"},
		{"missing inventory", func(c *Config) { c.Deploy.Inventory = "" }, "deploy.inventory"},
		{"negative retries", func(c *Config) { c.Deploy.Retries = -1 }, "deploy.retries"},
		{"zero probe attempts", func(c *Config) { c.Probe.MaxAttempts = 0 }, "probe.max_attempts"},
		{"zero probe timeout", func(c *Config) { c.Probe.Timeout = 0 }, "probe.timeout"},
		{"negative probe delay", func(c *Config) { c.Probe.Delay = -1 }, "probe.delay"},
		{"unknown backend", func(c *Config) { c.State.Backend = "consul" }, "state.backend"},
		{"local backend without path", func(c *Config) { c.State.Path = "" }, "state.path"},
		{"s3 backend without bucket", func(c *Config) {
			c.State.Backend = BackendS3
			c.State.S3 = S3Config{Endpoint: "https://fsn1.example.com", Region: "fsn1", AccessKey: "ak", SecretKey: "sk"}
		}, "state.s3.bucket"},
		{"s3 backend without endpoint", func(c *Config) {
			c.State.Backend = BackendS3
			c.State.S3 = S3Config{Region: "fsn1", Bucket: "b", AccessKey: "ak", SecretKey: "sk"}
		}, "state.s3.endpoint"},
		{"s3 backend without credentials", func(c *Config) {
			c.State.Backend = BackendS3
			c.State.S3 = S3Config{Endpoint: "https://fsn1.example.com", Region: "fsn1", Bucket: "b"}
		}, "state.s3.access_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr), "expected FieldError, got %T: %v", err, err)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestValidate_VolumeOptional(t *testing.T) {
	cfg := validConfig()
	cfg.Volume = nil
	assert.NoError(t, cfg.Validate())

	cfg.Volume = &VolumeConfig{SizeGB: 10}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CustomSSHPortMustBeAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.SSH.Port = 2222
	cfg.Firewall.AllowedTCPPorts = []int{2222, 443}

	assert.NoError(t, cfg.Validate())
}

func TestFieldError_Message(t *testing.T) {
	err := &FieldError{Field: "server.type", Reason: "is required"}
	assert.Contains(t, err.Error(), "server.type")
	assert.Contains(t, err.Error(), "is required")
}
