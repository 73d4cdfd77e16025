package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureSSHKey uploads the public key unless a key with the same name already
// exists. Hetzner SSH keys are immutable, so a key whose material changed must
// be deleted and recreated by the caller.
func (c *RealClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error) {
	return (&EnsureOperation[*hcloud.SSHKey, hcloud.SSHKeyCreateOpts, any]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Create:       simpleCreate(c.client.SSHKey.Create),
		CreateOptsMapper: func() hcloud.SSHKeyCreateOpts {
			return hcloud.SSHKeyCreateOpts{
				Name:      name,
				PublicKey: publicKey,
				Labels:    labels,
			}
		},
	}).Execute(ctx, c)
}

// DeleteSSHKey deletes the SSH key with the given name.
func (c *RealClient) DeleteSSHKey(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.SSHKey]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Delete:       c.client.SSHKey.Delete,
	}).Execute(ctx, c)
}

// GetSSHKey returns the SSH key with the given name, or nil if not found.
func (c *RealClient) GetSSHKey(ctx context.Context, name string) (*hcloud.SSHKey, error) {
	key, _, err := c.client.SSHKey.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get ssh key: %w", err)
	}
	return key, nil
}
