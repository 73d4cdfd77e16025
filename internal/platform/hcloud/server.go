package hcloud

import (
	"context"
	"fmt"
	"time"

	"github.com/onebox-dev/onebox/internal/util/retry"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CreateServer creates a new server and waits for the create action to finish.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, err := c.createServerWithRetry(ctx, createOpts)
	if err != nil {
		return nil, err
	}
	return result.Server, nil
}

// buildServerCreateOpts resolves named dependencies and builds server creation options.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	// Image lookup is architecture-aware so ARM server types resolve the
	// matching image build.
	image, err := c.resolveImage(ctx, opts.Image, serverType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	sshKeys, err := c.resolveSSHKeys(ctx, opts.SSHKeys)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	location, err := c.resolveLocation(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	return hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: serverType,
		Image:      image,
		SSHKeys:    sshKeys,
		Labels:     opts.Labels,
		UserData:   opts.UserData,
		Location:   location,
	}, nil
}

// createServerWithRetry creates a server with exponential backoff retry logic.
func (c *RealClient) createServerWithRetry(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, error) {
	var result hcloud.ServerCreateResult

	err := retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return result, fmt.Errorf("failed to create server: %w", err)
	}

	// Wait for server creation to complete
	if err := c.client.Action.WaitFor(ctx, result.Action); err != nil {
		return result, fmt.Errorf("failed to wait for server creation: %w", err)
	}

	return result, nil
}

// resolveImage resolves an image name for the server type's architecture.
func (c *RealClient) resolveImage(ctx context.Context, name string, serverType *hcloud.ServerType) (*hcloud.Image, error) {
	image, _, err := c.client.Image.GetForArchitecture(ctx, name, serverType.Architecture)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return nil, fmt.Errorf("image not found for %s: %s", serverType.Architecture, name)
	}
	return image, nil
}

// resolveSSHKeys resolves SSH key names/IDs to SSH key objects.
func (c *RealClient) resolveSSHKeys(ctx context.Context, sshKeys []string) ([]*hcloud.SSHKey, error) {
	var sshKeyObjs []*hcloud.SSHKey
	for _, key := range sshKeys {
		keyObj, _, err := c.client.SSHKey.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get ssh key %s: %w", key, err)
		}
		if keyObj == nil {
			return nil, fmt.Errorf("ssh key not found: %s", key)
		}
		sshKeyObjs = append(sshKeyObjs, keyObj)
	}
	return sshKeyObjs, nil
}

// resolveLocation resolves a location name to a location object.
func (c *RealClient) resolveLocation(ctx context.Context, location string) (*hcloud.Location, error) {
	if location == "" {
		return nil, nil
	}

	locObj, _, err := c.client.Location.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %s: %w", location, err)
	}
	if locObj == nil {
		return nil, fmt.Errorf("location not found: %s", location)
	}
	return locObj, nil
}

// DeleteServer deletes the server with the given name.
func (c *RealClient) DeleteServer(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Server]{
		Name:         name,
		ResourceType: "server",
		Get:          c.client.Server.Get,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
}

// GetServer returns the server with the given name, or nil if not found.
func (c *RealClient) GetServer(ctx context.Context, name string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	return server, nil
}

// WaitForServerIP polls until the server has a public IPv4 address and returns
// it. Newly created servers can take a few seconds before the address shows up
// in the API; the wait is bounded by the server IP timeout.
func (c *RealClient) WaitForServerIP(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerIP)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		server, _, err := c.client.Server.Get(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to get server: %w", err)
		}
		if server == nil {
			return "", fmt.Errorf("server not found: %s", name)
		}
		if ip := ServerIPv4(server); ip != "" {
			return ip, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("timeout waiting for public IPv4 on server %s", name)
		case <-ticker.C:
		}
	}
}

// ServerIPv4 extracts the public IPv4 address from a server, or empty string if not set.
func ServerIPv4(s *hcloud.Server) string {
	if s != nil && s.PublicNet.IPv4.IP != nil {
		return s.PublicNet.IPv4.IP.String()
	}
	return ""
}
