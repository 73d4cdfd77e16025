package hcloud

import (
	"context"
	"fmt"

	"github.com/onebox-dev/onebox/internal/util/retry"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureVolume ensures a volume with the given name exists. Size and format
// only apply at creation time; size changes on existing volumes go through
// ResizeVolume.
func (c *RealClient) EnsureVolume(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error) {
	return (&EnsureOperation[*hcloud.Volume, hcloud.VolumeCreateOpts, any]{
		Name:         opts.Name,
		ResourceType: "volume",
		Get:          c.client.Volume.Get,
		Create:       c.createVolume,
		CreateOptsMapper: func() hcloud.VolumeCreateOpts {
			createOpts := hcloud.VolumeCreateOpts{
				Name:     opts.Name,
				Size:     opts.SizeGB,
				Location: &hcloud.Location{Name: opts.Location},
				Labels:   opts.Labels,
			}
			if opts.Format != "" {
				createOpts.Format = hcloud.Ptr(opts.Format)
			}
			return createOpts
		},
	}).Execute(ctx, c)
}

func (c *RealClient) createVolume(ctx context.Context, opts hcloud.VolumeCreateOpts) (*CreateResult[*hcloud.Volume], *hcloud.Response, error) {
	res, resp, err := c.client.Volume.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.Volume]{
		Resource: res.Volume,
		Action:   res.Action,
		Actions:  res.NextActions,
	}, resp, nil
}

// ResizeVolume grows the volume to sizeGB. Hetzner volumes cannot shrink.
func (c *RealClient) ResizeVolume(ctx context.Context, name string, sizeGB int) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.VolumeAction)
	defer cancel()

	volume, err := c.GetVolume(ctx, name)
	if err != nil {
		return err
	}
	if volume == nil {
		return fmt.Errorf("volume not found: %s", name)
	}

	return c.runVolumeAction(ctx, "resize", func() (*hcloud.Action, *hcloud.Response, error) {
		return c.client.Volume.Resize(ctx, volume, sizeGB)
	})
}

// AttachVolume attaches the volume to the server. Attaching to the server it
// is already attached to is a no-op. Automount stays off; the instance mounts
// the volume by stable device path itself.
func (c *RealClient) AttachVolume(ctx context.Context, volumeName, serverName string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.VolumeAction)
	defer cancel()

	volume, err := c.GetVolume(ctx, volumeName)
	if err != nil {
		return err
	}
	if volume == nil {
		return fmt.Errorf("volume not found: %s", volumeName)
	}

	server, _, err := c.client.Server.Get(ctx, serverName)
	if err != nil {
		return fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return fmt.Errorf("server not found: %s", serverName)
	}

	if volume.Server != nil && volume.Server.ID == server.ID {
		return nil
	}

	return c.runVolumeAction(ctx, "attach", func() (*hcloud.Action, *hcloud.Response, error) {
		return c.client.Volume.AttachWithOpts(ctx, volume, hcloud.VolumeAttachOpts{
			Server:    server,
			Automount: hcloud.Ptr(false),
		})
	})
}

// DetachVolume detaches the volume from whatever server holds it.
// Detaching an unattached volume is a no-op.
func (c *RealClient) DetachVolume(ctx context.Context, volumeName string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.VolumeAction)
	defer cancel()

	volume, err := c.GetVolume(ctx, volumeName)
	if err != nil {
		return err
	}
	if volume == nil || volume.Server == nil {
		return nil
	}

	return c.runVolumeAction(ctx, "detach", func() (*hcloud.Action, *hcloud.Response, error) {
		return c.client.Volume.Detach(ctx, volume)
	})
}

// DeleteVolume deletes the volume with the given name.
func (c *RealClient) DeleteVolume(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Volume]{
		Name:         name,
		ResourceType: "volume",
		Get:          c.client.Volume.Get,
		Delete:       c.client.Volume.Delete,
	}).Execute(ctx, c)
}

// GetVolume returns the volume with the given name, or nil if not found.
func (c *RealClient) GetVolume(ctx context.Context, name string) (*hcloud.Volume, error) {
	volume, _, err := c.client.Volume.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get volume: %w", err)
	}
	return volume, nil
}

// runVolumeAction runs a volume action with retry on lock conflicts and waits
// for the resulting action to finish. Volume actions briefly lock both the
// volume and the server, so consecutive attach/detach calls need the retry.
func (c *RealClient) runVolumeAction(ctx context.Context, op string, fn func() (*hcloud.Action, *hcloud.Response, error)) error {
	err := retry.WithExponentialBackoff(ctx, func() error {
		action, _, err := fn()
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return c.client.Action.WaitFor(ctx, action)
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return fmt.Errorf("failed to %s volume: %w", op, err)
	}
	return nil
}
