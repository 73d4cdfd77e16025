package provision

import (
	"context"
	"os"

	"github.com/onebox-dev/onebox/internal/state"
)

// Destroy tears down every recorded resource in reverse creation order:
// server, volume, firewall, ssh key. Resources already gone are skipped
// by the platform layer, so a failed destroy can simply be rerun. The
// record is updated as resources disappear; the caller persists it.
func (p *Provisioner) Destroy(ctx context.Context, spec *Spec, rec *state.Record) error {
	if !rec.HasResources() {
		p.observer.Printf("[destroy] Nothing recorded for stack %s", spec.Stack)
		rec.ClearResources()
		return nil
	}
	p.observer.Printf("[destroy] Destroying stack %s...", spec.Stack)

	// Detach before anything is deleted; detaching an unattached volume
	// is a no-op.
	if rec.Volume != nil {
		p.observer.Printf("[destroy] Detaching volume %s...", rec.Volume.Name)
		if err := p.client.DetachVolume(ctx, rec.Volume.Name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: rec.Volume.Name, Op: "detach", Err: err}
		}
	}

	if rec.Server != nil {
		p.observer.Printf("[destroy] Deleting server %s...", rec.Server.Name)
		if err := p.client.DeleteServer(ctx, rec.Server.Name); err != nil {
			return &ResourceError{Resource: ResourceServer, Name: rec.Server.Name, Op: "delete", Err: err}
		}
		rec.Server = nil
	}

	if rec.Volume != nil {
		p.observer.Printf("[destroy] Deleting volume %s...", rec.Volume.Name)
		if err := p.client.DeleteVolume(ctx, rec.Volume.Name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: rec.Volume.Name, Op: "delete", Err: err}
		}
		rec.Volume = nil
	}

	if rec.Firewall != nil {
		p.observer.Printf("[destroy] Deleting firewall %s...", rec.Firewall.Name)
		if err := p.client.DeleteFirewall(ctx, rec.Firewall.Name); err != nil {
			return &ResourceError{Resource: ResourceFirewall, Name: rec.Firewall.Name, Op: "delete", Err: err}
		}
		rec.Firewall = nil
	}

	if rec.SSHKey != nil {
		p.observer.Printf("[destroy] Deleting ssh key %s...", rec.SSHKey.Name)
		if err := p.client.DeleteSSHKey(ctx, rec.SSHKey.Name); err != nil {
			return &ResourceError{Resource: ResourceSSHKey, Name: rec.SSHKey.Name, Op: "delete", Err: err}
		}
		rec.SSHKey = nil
	}

	if rec.Inventory != nil {
		if err := os.Remove(rec.Inventory.Path); err != nil && !os.IsNotExist(err) {
			return &ResourceError{Resource: ResourceInventory, Name: rec.Inventory.Path, Op: "remove", Err: err}
		}
	}

	rec.ClearResources()
	p.observer.Printf("[destroy] Stack %s destroyed", spec.Stack)
	return nil
}
