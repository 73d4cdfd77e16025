package hcloud

import (
	"context"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// MockClient is a mock implementation of InfrastructureManager.
// Unset Func fields fall back to permissive defaults: Ensure/Create calls
// succeed with canned resources, Get calls report "not found".
type MockClient struct {
	CreateServerFunc    func(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServerFunc    func(ctx context.Context, name string) error
	GetServerFunc       func(ctx context.Context, name string) (*hcloud.Server, error)
	WaitForServerIPFunc func(ctx context.Context, name string) (string, error)

	EnsureSSHKeyFunc func(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
	DeleteSSHKeyFunc func(ctx context.Context, name string) error
	GetSSHKeyFunc    func(ctx context.Context, name string) (*hcloud.SSHKey, error)

	EnsureFirewallFunc func(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error)
	DeleteFirewallFunc func(ctx context.Context, name string) error
	GetFirewallFunc    func(ctx context.Context, name string) (*hcloud.Firewall, error)

	EnsureVolumeFunc func(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error)
	ResizeVolumeFunc func(ctx context.Context, name string, sizeGB int) error
	AttachVolumeFunc func(ctx context.Context, volumeName, serverName string) error
	DetachVolumeFunc func(ctx context.Context, volumeName string) error
	DeleteVolumeFunc func(ctx context.Context, name string) error
	GetVolumeFunc    func(ctx context.Context, name string) (*hcloud.Volume, error)

	GetPublicIPFunc func(ctx context.Context) (string, error)
}

// Ensure interface compliance
var _ InfrastructureManager = (*MockClient)(nil)

// MockServerIP is the address mock servers report by default.
const MockServerIP = "192.0.2.10"

// CreateServer mocks server creation.
func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	return &hcloud.Server{
		ID:   42,
		Name: opts.Name,
		PublicNet: hcloud.ServerPublicNet{
			IPv4: hcloud.ServerPublicNetIPv4{IP: net.ParseIP(MockServerIP)},
		},
	}, nil
}

// DeleteServer mocks server deletion.
func (m *MockClient) DeleteServer(ctx context.Context, name string) error {
	if m.DeleteServerFunc != nil {
		return m.DeleteServerFunc(ctx, name)
	}
	return nil
}

// GetServer mocks server lookup.
func (m *MockClient) GetServer(ctx context.Context, name string) (*hcloud.Server, error) {
	if m.GetServerFunc != nil {
		return m.GetServerFunc(ctx, name)
	}
	return nil, nil
}

// WaitForServerIP mocks waiting for a public IPv4.
func (m *MockClient) WaitForServerIP(ctx context.Context, name string) (string, error) {
	if m.WaitForServerIPFunc != nil {
		return m.WaitForServerIPFunc(ctx, name)
	}
	return MockServerIP, nil
}

// EnsureSSHKey mocks ssh key creation.
func (m *MockClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error) {
	if m.EnsureSSHKeyFunc != nil {
		return m.EnsureSSHKeyFunc(ctx, name, publicKey, labels)
	}
	return &hcloud.SSHKey{ID: 7, Name: name}, nil
}

// DeleteSSHKey mocks ssh key deletion.
func (m *MockClient) DeleteSSHKey(ctx context.Context, name string) error {
	if m.DeleteSSHKeyFunc != nil {
		return m.DeleteSSHKeyFunc(ctx, name)
	}
	return nil
}

// GetSSHKey mocks ssh key lookup.
func (m *MockClient) GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error) {
	if m.GetSSHKeyFunc != nil {
		return m.GetSSHKeyFunc(ctx, name)
	}
	return nil, nil
}

// EnsureFirewall mocks firewall creation.
func (m *MockClient) EnsureFirewall(ctx context.Context, name string, rules []hcloud.FirewallRule, labels map[string]string, applyToLabelSelector string) (*hcloud.Firewall, error) {
	if m.EnsureFirewallFunc != nil {
		return m.EnsureFirewallFunc(ctx, name, rules, labels, applyToLabelSelector)
	}
	return &hcloud.Firewall{ID: 11, Name: name}, nil
}

// DeleteFirewall mocks firewall deletion.
func (m *MockClient) DeleteFirewall(ctx context.Context, name string) error {
	if m.DeleteFirewallFunc != nil {
		return m.DeleteFirewallFunc(ctx, name)
	}
	return nil
}

// GetFirewall mocks firewall lookup.
func (m *MockClient) GetFirewall(ctx context.Context, name string) (*hcloud.Firewall, error) {
	if m.GetFirewallFunc != nil {
		return m.GetFirewallFunc(ctx, name)
	}
	return nil, nil
}

// EnsureVolume mocks volume creation.
func (m *MockClient) EnsureVolume(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error) {
	if m.EnsureVolumeFunc != nil {
		return m.EnsureVolumeFunc(ctx, opts)
	}
	return &hcloud.Volume{ID: 23, Name: opts.Name, Size: opts.SizeGB}, nil
}

// ResizeVolume mocks volume resizing.
func (m *MockClient) ResizeVolume(ctx context.Context, name string, sizeGB int) error {
	if m.ResizeVolumeFunc != nil {
		return m.ResizeVolumeFunc(ctx, name, sizeGB)
	}
	return nil
}

// AttachVolume mocks volume attachment.
func (m *MockClient) AttachVolume(ctx context.Context, volumeName, serverName string) error {
	if m.AttachVolumeFunc != nil {
		return m.AttachVolumeFunc(ctx, volumeName, serverName)
	}
	return nil
}

// DetachVolume mocks volume detachment.
func (m *MockClient) DetachVolume(ctx context.Context, volumeName string) error {
	if m.DetachVolumeFunc != nil {
		return m.DetachVolumeFunc(ctx, volumeName)
	}
	return nil
}

// DeleteVolume mocks volume deletion.
func (m *MockClient) DeleteVolume(ctx context.Context, name string) error {
	if m.DeleteVolumeFunc != nil {
		return m.DeleteVolumeFunc(ctx, name)
	}
	return nil
}

// GetVolume mocks volume lookup.
func (m *MockClient) GetVolume(ctx context.Context, name string) (*hcloud.Volume, error) {
	if m.GetVolumeFunc != nil {
		return m.GetVolumeFunc(ctx, name)
	}
	return nil, nil
}

// GetPublicIP mocks detecting the caller's public address.
func (m *MockClient) GetPublicIP(ctx context.Context) (string, error) {
	if m.GetPublicIPFunc != nil {
		return m.GetPublicIPFunc(ctx)
	}
	return "203.0.113.1", nil
}
