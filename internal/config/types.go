package config

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultPath is where onebox.yaml is looked up relative to the working
// directory.
const DefaultPath = "onebox.yaml"

// DefaultStateDir holds generated artifacts: state record, inventory and
// generated key material.
const DefaultStateDir = ".onebox"

// Config holds the full desired-state specification for one stack.
type Config struct {
	Name        string `mapstructure:"name" yaml:"name"`
	HCloudToken string `mapstructure:"hcloud_token" yaml:"hcloud_token"`
	Location    string `mapstructure:"location" yaml:"location"` // e.g. nbg1, fsn1, hel1

	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	SSH      SSHConfig      `mapstructure:"ssh" yaml:"ssh"`
	Firewall FirewallConfig `mapstructure:"firewall" yaml:"firewall"`

	// Volume is the optional persistent data volume. Nil means none.
	Volume *VolumeConfig `mapstructure:"volume" yaml:"volume"`

	Deploy DeployConfig `mapstructure:"deploy" yaml:"deploy"`
	Probe  ProbeConfig  `mapstructure:"probe" yaml:"probe"`
	State  StateConfig  `mapstructure:"state" yaml:"state"`
}

// ServerConfig describes the single server.
type ServerConfig struct {
	Type  string `mapstructure:"type" yaml:"type"`   // e.g. cx22, cax11
	Image string `mapstructure:"image" yaml:"image"` // e.g. debian-12
	User  string `mapstructure:"user" yaml:"user"`   // login identity for SSH and Ansible

	// UserData is a free-form cloud-init script run at first boot. Changing
	// it forces a server replacement.
	UserData string `mapstructure:"user_data" yaml:"user_data"`
}

// SSHConfig references the key material used for the server.
type SSHConfig struct {
	PublicKey  string `mapstructure:"public_key" yaml:"public_key"`   // path to the public key file
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"` // path to the private key file
	Port       int    `mapstructure:"port" yaml:"port"`
}

// UsesGeneratedKeys reports whether the key paths point into the state
// directory, where apply generates a key pair when none exists yet.
func (s SSHConfig) UsesGeneratedKeys() bool {
	return strings.HasPrefix(filepath.ToSlash(s.PrivateKey), DefaultStateDir+"/")
}

// FirewallConfig describes inbound access. Outbound traffic is always
// unrestricted.
type FirewallConfig struct {
	AllowedTCPPorts []int `mapstructure:"allowed_tcp_ports" yaml:"allowed_tcp_ports"`

	// SSHSource optionally restricts the SSH port to these source CIDRs.
	// Empty means open to the world.
	SSHSource []string `mapstructure:"ssh_source" yaml:"ssh_source"`
}

// VolumeConfig describes the optional data volume. The volume survives
// server replacement: it is detached from the old server and attached to
// the new one.
type VolumeConfig struct {
	SizeGB int    `mapstructure:"size_gb" yaml:"size_gb"`
	Format string `mapstructure:"format" yaml:"format"` // ext4 or xfs
}

// DeployConfig describes the configuration-management payload.
type DeployConfig struct {
	Playbook  string            `mapstructure:"playbook" yaml:"playbook"`
	Tracked   []string          `mapstructure:"tracked" yaml:"tracked"` // fingerprinted paths, files or directories
	Inventory string            `mapstructure:"inventory" yaml:"inventory"`
	ExtraVars map[string]string `mapstructure:"extra_vars" yaml:"extra_vars"`
	Retries   int               `mapstructure:"retries" yaml:"retries"` // per-task SSH retries
	Verbose   bool              `mapstructure:"verbose" yaml:"verbose"`
}

// TrackedPaths returns the fingerprinted paths, defaulting to the
// playbook's directory so role and template edits re-trigger the pass.
func (d DeployConfig) TrackedPaths() []string {
	if len(d.Tracked) > 0 {
		return d.Tracked
	}
	dir := filepath.Dir(d.Playbook)
	if dir == "." || dir == "" {
		return []string{d.Playbook}
	}
	return []string{dir}
}

// ProbeConfig tunes the SSH readiness probe.
type ProbeConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay" yaml:"initial_delay"`
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Delay        time.Duration `mapstructure:"delay" yaml:"delay"`
}

// StateConfig selects where the state record is persisted.
type StateConfig struct {
	Backend string   `mapstructure:"backend" yaml:"backend"` // local or s3
	Path    string   `mapstructure:"path" yaml:"path"`       // local backend file path
	S3      S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config points at an S3-compatible bucket for the remote state
// backend. Credentials may come from ONEBOX_S3_ACCESS_KEY and
// ONEBOX_S3_SECRET_KEY instead of the file.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Region    string `mapstructure:"region" yaml:"region"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
}

// BackendLocal and BackendS3 are the recognized state backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)
