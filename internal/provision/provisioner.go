package provision

import (
	"github.com/onebox-dev/onebox/internal/inventory"
	"github.com/onebox-dev/onebox/internal/platform/hcloud"
	"github.com/onebox-dev/onebox/internal/state"
	"github.com/onebox-dev/onebox/internal/util/labels"
)

// Provisioner plans and applies infrastructure changes for one stack.
type Provisioner struct {
	client   hcloud.InfrastructureManager
	observer Observer
}

// New creates a provisioner. A nil observer logs to the console.
func New(client hcloud.InfrastructureManager, observer Observer) *Provisioner {
	if observer == nil {
		observer = ConsoleObserver{}
	}
	return &Provisioner{client: client, observer: observer}
}

func resourceLabels(stack, kind string) map[string]string {
	return labels.NewBuilder(stack).WithResource(kind).Build()
}

// phase notifies observers that track coarse progress.
func (p *Provisioner) phase(kind string) {
	if po, ok := p.observer.(PhaseObserver); ok {
		po.Phase(kind)
	}
}

// writeInventory renders the inventory for addr and records it.
func (p *Provisioner) writeInventory(spec *Spec, rec *state.Record, addr string) error {
	h := inventory.Host{
		Group:   spec.Stack,
		Addr:    addr,
		User:    spec.Inventory.User,
		KeyPath: spec.Inventory.KeyPath,
	}
	if err := inventory.Write(spec.Inventory.Path, h); err != nil {
		return &ResourceError{Resource: ResourceInventory, Name: spec.Inventory.Path, Op: "write", Err: err}
	}
	rec.Inventory = &state.InventoryRecord{Path: spec.Inventory.Path, Addr: addr, User: spec.Inventory.User}
	p.observer.Printf("[apply] Inventory %s -> %s", spec.Inventory.Path, addr)
	return nil
}
