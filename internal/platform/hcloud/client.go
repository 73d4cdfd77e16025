package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// ServerCreateOpts holds all parameters for creating a server.
type ServerCreateOpts struct {
	Name       string
	ServerType string
	Image      string
	Location   string
	SSHKeys    []string
	Labels     map[string]string
	UserData   string
}

// VolumeCreateOpts holds all parameters for creating a volume.
// Format is the filesystem to create on first use; it only applies at
// creation time and is ignored for existing volumes.
type VolumeCreateOpts struct {
	Name     string
	SizeGB   int
	Location string
	Format   string
	Labels   map[string]string
}

// ServerManager defines the interface for managing servers.
type ServerManager interface {
	// CreateServer creates a new server and waits for the create action to
	// finish. The returned server may not have a public IPv4 yet; use
	// WaitForServerIP to block until one is assigned.
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServer(ctx context.Context, name string) error
	// GetServer returns the server with the given name, or nil if not found.
	GetServer(ctx context.Context, name string) (*hcloud.Server, error)
	// WaitForServerIP polls until the server has a public IPv4 address and
	// returns it. The wait is bounded by the configured server IP timeout.
	WaitForServerIP(ctx context.Context, name string) (string, error)
}

// SSHKeyManager defines the interface for managing SSH keys.
type SSHKeyManager interface {
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
	DeleteSSHKey(ctx context.Context, name string) error
	GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error)
}

// FirewallManager defines the interface for managing firewalls.
type FirewallManager interface {
	// EnsureFirewall creates the firewall or replaces its rule set, and
	// applies it to all servers matching applyToLabelSelector.
	EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error)
	DeleteFirewall(ctx context.Context, name string) error
	GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error)
}

// VolumeManager defines the interface for managing volumes.
type VolumeManager interface {
	EnsureVolume(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error)
	// ResizeVolume grows the volume to sizeGB. Hetzner volumes cannot shrink;
	// callers must reject smaller sizes before calling this.
	ResizeVolume(ctx context.Context, name string, sizeGB int) error
	AttachVolume(ctx context.Context, volumeName, serverName string) error
	DetachVolume(ctx context.Context, volumeName string) error
	DeleteVolume(ctx context.Context, name string) error
	GetVolume(ctx context.Context, name string) (*hcloud.Volume, error)
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	ServerManager
	SSHKeyManager
	FirewallManager
	VolumeManager
	GetPublicIP(ctx context.Context) (string, error)
}
