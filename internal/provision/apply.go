package provision

import (
	"context"
	"errors"

	"github.com/onebox-dev/onebox/internal/platform/hcloud"
	"github.com/onebox-dev/onebox/internal/state"
	"github.com/onebox-dev/onebox/internal/util/labels"
	"github.com/onebox-dev/onebox/internal/util/naming"
)

// Apply plans against the current record and executes the result. The
// record is updated as each resource completes; the caller must persist
// it even when Apply returns an error.
func (p *Provisioner) Apply(ctx context.Context, spec *Spec, rec *state.Record) error {
	plan, err := p.Plan(ctx, spec, rec)
	if err != nil {
		return err
	}
	return p.ApplyPlan(ctx, spec, rec, plan)
}

// ApplyPlan executes a previously computed plan, so the plan the operator
// confirmed is the one that runs.
func (p *Provisioner) ApplyPlan(ctx context.Context, spec *Spec, rec *state.Record, plan *Plan) error {
	if plan.Empty() {
		p.observer.Printf("[apply] Nothing to do, infrastructure is up to date")
		return nil
	}

	for _, change := range plan.Changes {
		p.phase(change.Resource)

		var err error
		switch change.Resource {
		case ResourceSSHKey:
			err = p.applySSHKey(ctx, spec, rec, change)
		case ResourceFirewall:
			err = p.applyFirewall(ctx, spec, rec)
		case ResourceVolume:
			err = p.applyVolume(ctx, spec, rec, change)
		case ResourceServer:
			err = p.applyServer(ctx, spec, rec, change)
		case ResourceInventory:
			err = p.applyInventory(spec, rec)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) applySSHKey(ctx context.Context, spec *Spec, rec *state.Record, change Change) error {
	name := spec.SSHKey.Name
	if change.Action == ActionReplace {
		p.observer.Printf("[apply] Removing ssh key %s, public key changed...", name)
		if err := p.client.DeleteSSHKey(ctx, name); err != nil {
			return &ResourceError{Resource: ResourceSSHKey, Name: name, Op: "delete", Err: err}
		}
	}

	p.observer.Printf("[apply] Reconciling ssh key %s...", name)
	key, err := p.client.EnsureSSHKey(ctx, name, spec.SSHKey.PublicKey, resourceLabels(spec.Stack, labels.ResourceSSHKey))
	if err != nil {
		return &ResourceError{Resource: ResourceSSHKey, Name: name, Op: "create", Err: err}
	}
	rec.SSHKey = &state.SSHKeyRecord{ID: key.ID, Name: key.Name, Fingerprint: spec.SSHKey.Fingerprint}
	return nil
}

func (p *Provisioner) applyFirewall(ctx context.Context, spec *Spec, rec *state.Record) error {
	name := spec.Firewall.Name
	p.observer.Printf("[apply] Reconciling firewall %s...", name)

	selector := labels.SelectorForStack(spec.Stack)
	fw, err := p.client.EnsureFirewall(ctx, name, spec.Firewall.Rules, resourceLabels(spec.Stack, labels.ResourceFirewall), selector)
	if err != nil {
		return &ResourceError{Resource: ResourceFirewall, Name: name, Op: "apply", Err: err}
	}
	rec.Firewall = &state.FirewallRecord{ID: fw.ID, Name: fw.Name, RulesDigest: spec.Firewall.Digest}
	return nil
}

func (p *Provisioner) applyVolume(ctx context.Context, spec *Spec, rec *state.Record, change Change) error {
	switch change.Action {
	case ActionDelete:
		name := rec.Volume.Name
		p.observer.Printf("[apply] Deleting volume %s...", name)
		if err := p.client.DetachVolume(ctx, name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: name, Op: "detach", Err: err}
		}
		if err := p.client.DeleteVolume(ctx, name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: name, Op: "delete", Err: err}
		}
		rec.Volume = nil

	case ActionUpdate:
		name := spec.Volume.Name
		p.observer.Printf("[apply] Growing volume %s to %d GB...", name, spec.Volume.SizeGB)
		if err := p.client.ResizeVolume(ctx, name, spec.Volume.SizeGB); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: name, Op: "resize", Err: err}
		}
		rec.Volume.SizeGB = spec.Volume.SizeGB
		p.observer.Printf("[apply] Volume grown, extend the filesystem from the server to use the new space")

	case ActionReplace:
		name := rec.Volume.Name
		p.observer.Printf("[apply] Replacing volume %s, the new filesystem starts empty...", name)
		if err := p.client.DetachVolume(ctx, name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: name, Op: "detach", Err: err}
		}
		if err := p.client.DeleteVolume(ctx, name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: name, Op: "delete", Err: err}
		}
		rec.Volume = nil
		return p.createVolume(ctx, spec, rec)

	default:
		return p.createVolume(ctx, spec, rec)
	}
	return nil
}

func (p *Provisioner) createVolume(ctx context.Context, spec *Spec, rec *state.Record) error {
	name := spec.Volume.Name
	p.observer.Printf("[apply] Reconciling volume %s...", name)
	vol, err := p.client.EnsureVolume(ctx, hcloud.VolumeCreateOpts{
		Name:     name,
		SizeGB:   spec.Volume.SizeGB,
		Location: spec.Location,
		Format:   spec.Volume.Format,
		Labels:   resourceLabels(spec.Stack, labels.ResourceVolume),
	})
	if err != nil {
		return &ResourceError{Resource: ResourceVolume, Name: name, Op: "create", Err: err}
	}
	rec.Volume = &state.VolumeRecord{ID: vol.ID, Name: vol.Name, SizeGB: vol.Size, Format: spec.Volume.Format}

	if rec.Server != nil {
		if err := p.client.AttachVolume(ctx, name, rec.Server.Name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: name, Op: "attach", Err: err}
		}
	}
	return nil
}

func (p *Provisioner) applyServer(ctx context.Context, spec *Spec, rec *state.Record, change Change) error {
	if change.Action == ActionReplace {
		return p.replaceServer(ctx, spec, rec)
	}
	return p.createServer(ctx, spec, rec)
}

func (p *Provisioner) createServer(ctx context.Context, spec *Spec, rec *state.Record) error {
	name := naming.Server(spec.Stack, naming.Suffix())

	id, addr, err := p.bootServer(ctx, spec, name)
	if err != nil {
		return err
	}
	rec.Server = p.serverRecord(spec, id, name, addr)

	if rec.Volume != nil {
		if err := p.client.AttachVolume(ctx, rec.Volume.Name, name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: rec.Volume.Name, Op: "attach", Err: err}
		}
	}

	p.observer.Printf("[apply] Server %s ready at %s", name, addr)
	return nil
}

// replaceServer swaps the server create-before-destroy. The old server
// keeps running until the replacement has an address and the inventory
// points at it; only then is the old one deleted.
func (p *Provisioner) replaceServer(ctx context.Context, spec *Spec, rec *state.Record) error {
	old := *rec.Server
	name := naming.Server(spec.Stack, naming.Suffix())
	p.observer.Printf("[apply] Replacing server %s with %s...", old.Name, name)

	id, addr, err := p.bootServer(ctx, spec, name)
	if err != nil {
		return err
	}
	rec.Server = p.serverRecord(spec, id, name, addr)

	if rec.Volume != nil {
		p.observer.Printf("[apply] Moving volume %s to %s...", rec.Volume.Name, name)
		if err := p.client.DetachVolume(ctx, rec.Volume.Name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: rec.Volume.Name, Op: "detach", Err: err}
		}
		if err := p.client.AttachVolume(ctx, rec.Volume.Name, name); err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: rec.Volume.Name, Op: "attach", Err: err}
		}
	}

	// The inventory must point at the new server before the old one is
	// deleted.
	if err := p.writeInventory(spec, rec, addr); err != nil {
		return err
	}

	p.observer.Printf("[apply] Deleting old server %s...", old.Name)
	if err := p.client.DeleteServer(ctx, old.Name); err != nil {
		return &ResourceError{Resource: ResourceServer, Name: old.Name, Op: "delete", Err: err}
	}

	p.observer.Printf("[apply] Server %s ready at %s", name, addr)
	return nil
}

// bootServer creates a server and waits for its public address.
func (p *Provisioner) bootServer(ctx context.Context, spec *Spec, name string) (int64, string, error) {
	p.observer.Printf("[apply] Creating server %s (%s, %s, %s)...", name, spec.Server.ServerType, spec.Server.Image, spec.Location)

	srv, err := p.client.CreateServer(ctx, hcloud.ServerCreateOpts{
		Name:       name,
		ServerType: spec.Server.ServerType,
		Image:      spec.Server.Image,
		Location:   spec.Location,
		SSHKeys:    []string{spec.SSHKey.Name},
		Labels:     resourceLabels(spec.Stack, labels.ResourceServer),
		UserData:   spec.Server.UserData,
	})
	if err != nil {
		return 0, "", &ResourceError{Resource: ResourceServer, Name: name, Op: "create", Err: err}
	}

	addr, err := p.client.WaitForServerIP(ctx, name)
	if err != nil {
		return 0, "", &ResourceError{Resource: ResourceServer, Name: name, Op: "wait for public address", Err: err}
	}
	return srv.ID, addr, nil
}

func (p *Provisioner) serverRecord(spec *Spec, id int64, name, addr string) *state.ServerRecord {
	return &state.ServerRecord{
		ID:             id,
		Name:           name,
		Addr:           addr,
		ServerType:     spec.Server.ServerType,
		Image:          spec.Server.Image,
		Location:       spec.Location,
		UserDataDigest: spec.Server.UserDataDigest,
	}
}

func (p *Provisioner) applyInventory(spec *Spec, rec *state.Record) error {
	if rec.Server == nil {
		return &ResourceError{Resource: ResourceInventory, Name: spec.Inventory.Path, Op: "write", Err: errors.New("no server recorded")}
	}
	return p.writeInventory(spec, rec, rec.Server.Addr)
}
