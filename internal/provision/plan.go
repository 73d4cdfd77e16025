package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/onebox-dev/onebox/internal/inventory"
	"github.com/onebox-dev/onebox/internal/state"
	"github.com/onebox-dev/onebox/internal/util/labels"
)

// Resource kinds as they appear in plans and errors.
const (
	ResourceSSHKey    = labels.ResourceSSHKey
	ResourceFirewall  = labels.ResourceFirewall
	ResourceVolume    = labels.ResourceVolume
	ResourceServer    = labels.ResourceServer
	ResourceInventory = "inventory"
)

// Action is the transition a planned change performs.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionReplace Action = "replace"
	ActionDelete  Action = "delete"
)

// Change is one resource transition the next apply will perform.
type Change struct {
	Resource string
	Name     string
	Action   Action
	Reasons  []string
}

// Symbol returns the diff marker used when rendering the change.
func (c Change) Symbol() string {
	switch c.Action {
	case ActionCreate:
		return "+"
	case ActionUpdate:
		return "~"
	case ActionReplace:
		return "+/-"
	case ActionDelete:
		return "-"
	}
	return " "
}

func (c Change) String() string {
	s := fmt.Sprintf("%s %s %s", c.Symbol(), c.Resource, c.Name)
	if len(c.Reasons) > 0 {
		s += " (" + strings.Join(c.Reasons, ", ") + ")"
	}
	return s
}

// Plan is the ordered set of changes needed to reach the desired spec.
// Changes are listed in apply order.
type Plan struct {
	Changes []Change
}

// Add appends a change.
func (p *Plan) Add(resource, name string, action Action, reasons ...string) {
	p.Changes = append(p.Changes, Change{Resource: resource, Name: name, Action: action, Reasons: reasons})
}

// Find returns the change for the given resource kind, or nil.
func (p *Plan) Find(resource string) *Change {
	for i := range p.Changes {
		if p.Changes[i].Resource == resource {
			return &p.Changes[i]
		}
	}
	return nil
}

// Empty reports whether the plan has no changes. Two consecutive plans
// with no intervening edits or failures produce an empty second plan.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

// Summary renders a one-line count of planned changes.
func (p *Plan) Summary() string {
	if p.Empty() {
		return "No changes. Infrastructure is up to date."
	}
	counts := map[Action]int{}
	for _, c := range p.Changes {
		counts[c.Action]++
	}
	var parts []string
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionReplace, ActionDelete} {
		if n := counts[a]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d to %s", n, a))
		}
	}
	return "Plan: " + strings.Join(parts, ", ") + "."
}

// Plan computes the changes that move the recorded state to the desired
// spec. Resources the record claims exist are looked up in the cloud, so
// anything deleted out of band comes back as a create.
func (p *Provisioner) Plan(ctx context.Context, spec *Spec, rec *state.Record) (*Plan, error) {
	plan := &Plan{}

	if err := p.planSSHKey(ctx, spec, rec, plan); err != nil {
		return nil, err
	}
	if err := p.planFirewall(ctx, spec, rec, plan); err != nil {
		return nil, err
	}
	if err := p.planVolume(ctx, spec, rec, plan); err != nil {
		return nil, err
	}
	if err := p.planServer(ctx, spec, rec, plan); err != nil {
		return nil, err
	}
	if err := p.planInventory(spec, rec, plan); err != nil {
		return nil, err
	}

	return plan, nil
}

func (p *Provisioner) planSSHKey(ctx context.Context, spec *Spec, rec *state.Record, plan *Plan) error {
	name := spec.SSHKey.Name
	switch {
	case rec.SSHKey == nil:
		plan.Add(ResourceSSHKey, name, ActionCreate, "not yet provisioned")
	case rec.SSHKey.Fingerprint != spec.SSHKey.Fingerprint:
		plan.Add(ResourceSSHKey, name, ActionReplace, "public key changed")
	default:
		live, err := p.client.GetSSHKey(ctx, name)
		if err != nil {
			return &ResourceError{Resource: ResourceSSHKey, Name: name, Op: "lookup", Err: err}
		}
		if live == nil {
			plan.Add(ResourceSSHKey, name, ActionCreate, "missing from cloud")
		}
	}
	return nil
}

func (p *Provisioner) planFirewall(ctx context.Context, spec *Spec, rec *state.Record, plan *Plan) error {
	name := spec.Firewall.Name
	switch {
	case rec.Firewall == nil:
		plan.Add(ResourceFirewall, name, ActionCreate, "not yet provisioned")
	case rec.Firewall.RulesDigest != spec.Firewall.Digest:
		plan.Add(ResourceFirewall, name, ActionUpdate, "firewall rules changed")
	default:
		live, err := p.client.GetFirewall(ctx, name)
		if err != nil {
			return &ResourceError{Resource: ResourceFirewall, Name: name, Op: "lookup", Err: err}
		}
		if live == nil {
			plan.Add(ResourceFirewall, name, ActionCreate, "missing from cloud")
		}
	}
	return nil
}

func (p *Provisioner) planVolume(ctx context.Context, spec *Spec, rec *state.Record, plan *Plan) error {
	switch {
	case spec.Volume == nil && rec.Volume == nil:
	case spec.Volume == nil:
		plan.Add(ResourceVolume, rec.Volume.Name, ActionDelete, "removed from configuration")
	case rec.Volume == nil:
		plan.Add(ResourceVolume, spec.Volume.Name, ActionCreate, "not yet provisioned")
	case spec.Volume.SizeGB < rec.Volume.SizeGB:
		return fmt.Errorf("volume %s cannot shrink from %d GB to %d GB", rec.Volume.Name, rec.Volume.SizeGB, spec.Volume.SizeGB)
	case rec.Volume.Format != "" && spec.Volume.Format != rec.Volume.Format:
		// Hetzner cannot reformat in place; the volume is recreated and
		// its data is gone.
		plan.Add(ResourceVolume, rec.Volume.Name, ActionReplace,
			fmt.Sprintf("format %s -> %s, volume data is lost", rec.Volume.Format, spec.Volume.Format))
	case spec.Volume.SizeGB > rec.Volume.SizeGB:
		plan.Add(ResourceVolume, spec.Volume.Name, ActionUpdate,
			fmt.Sprintf("size %d GB -> %d GB", rec.Volume.SizeGB, spec.Volume.SizeGB))
	default:
		live, err := p.client.GetVolume(ctx, spec.Volume.Name)
		if err != nil {
			return &ResourceError{Resource: ResourceVolume, Name: spec.Volume.Name, Op: "lookup", Err: err}
		}
		if live == nil {
			plan.Add(ResourceVolume, spec.Volume.Name, ActionCreate, "missing from cloud")
		}
	}
	return nil
}

func (p *Provisioner) planServer(ctx context.Context, spec *Spec, rec *state.Record, plan *Plan) error {
	if rec.Server == nil {
		plan.Add(ResourceServer, spec.Stack, ActionCreate, "not yet provisioned")
		return nil
	}

	var reasons []string
	if rec.Server.ServerType != spec.Server.ServerType {
		reasons = append(reasons, fmt.Sprintf("server type %s -> %s", rec.Server.ServerType, spec.Server.ServerType))
	}
	if rec.Server.Image != spec.Server.Image {
		reasons = append(reasons, fmt.Sprintf("image %s -> %s", rec.Server.Image, spec.Server.Image))
	}
	if rec.Server.Location != spec.Location {
		reasons = append(reasons, fmt.Sprintf("location %s -> %s", rec.Server.Location, spec.Location))
	}
	if rec.Server.UserDataDigest != spec.Server.UserDataDigest {
		reasons = append(reasons, "user data changed")
	}
	// Hetzner injects SSH keys only at server create. A rotated key never
	// reaches the running server, so the box must be rebuilt or the probe
	// dead-ends against the old authorized_keys.
	if rec.SSHKey != nil && rec.SSHKey.Fingerprint != spec.SSHKey.Fingerprint {
		reasons = append(reasons, "ssh key changed")
	}
	if len(reasons) > 0 {
		plan.Add(ResourceServer, rec.Server.Name, ActionReplace, reasons...)
		return nil
	}

	live, err := p.client.GetServer(ctx, rec.Server.Name)
	if err != nil {
		return &ResourceError{Resource: ResourceServer, Name: rec.Server.Name, Op: "lookup", Err: err}
	}
	if live == nil {
		plan.Add(ResourceServer, spec.Stack, ActionCreate, "missing from cloud")
	}
	return nil
}

// planInventory runs after planServer: a new or replaced server always
// means a fresh address, so the inventory change rides along.
func (p *Provisioner) planInventory(spec *Spec, rec *state.Record, plan *Plan) error {
	path := spec.Inventory.Path

	if plan.Find(ResourceServer) != nil {
		action := ActionUpdate
		if rec.Inventory == nil {
			action = ActionCreate
		}
		plan.Add(ResourceInventory, path, action, "server address changes")
		return nil
	}

	if rec.Inventory == nil {
		plan.Add(ResourceInventory, path, ActionCreate, "not yet written")
		return nil
	}

	var reasons []string
	if rec.Inventory.Path != path {
		reasons = append(reasons, fmt.Sprintf("path %s -> %s", rec.Inventory.Path, path))
	}
	if rec.Inventory.User != spec.Inventory.User {
		reasons = append(reasons, fmt.Sprintf("login user %s -> %s", rec.Inventory.User, spec.Inventory.User))
	}
	if len(reasons) > 0 {
		plan.Add(ResourceInventory, path, ActionUpdate, reasons...)
		return nil
	}

	if rec.Server == nil {
		return nil
	}
	addr, err := inventory.RecordedAddr(path)
	if err != nil {
		return fmt.Errorf("cannot read inventory %s: %w", path, err)
	}
	switch {
	case addr == "":
		plan.Add(ResourceInventory, path, ActionCreate, "inventory file missing")
	case addr != rec.Server.Addr:
		plan.Add(ResourceInventory, path, ActionUpdate,
			fmt.Sprintf("records %s, server is at %s", addr, rec.Server.Addr))
	}
	return nil
}
