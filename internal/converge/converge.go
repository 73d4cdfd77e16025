// Package converge decides whether the configuration pass must re-run and
// executes it against a verified-reachable server.
//
// The decision is a pure function of the previously recorded run and the
// current inputs: the pass fires iff the server identity changed or any
// tracked file's fingerprint changed. Re-applying with no changes is a
// no-op. The record is only advanced after a fully successful pass, so a
// failed run fires again on the next apply.
package converge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/onebox-dev/onebox/internal/ansible"
	"github.com/onebox-dev/onebox/internal/fingerprint"
	"github.com/onebox-dev/onebox/internal/inventory"
	"github.com/onebox-dev/onebox/internal/probe"
	"github.com/onebox-dev/onebox/internal/state"
)

// Inputs is the current view the decision is taken against.
type Inputs struct {
	InstanceID   string
	Addr         string
	Fingerprints fingerprint.Set
}

// Decision says whether the pass must re-run and why.
type Decision struct {
	Fire    bool
	Reasons []string
}

// Summary renders the decision for logs.
func (d Decision) Summary() string {
	if !d.Fire {
		return "configuration up to date"
	}
	return strings.Join(d.Reasons, ", ")
}

// Decide compares the last recorded run against the current inputs.
func Decide(prev *state.ConvergeRecord, cur Inputs) Decision {
	if prev == nil {
		return Decision{Fire: true, Reasons: []string{"no previous configuration run"}}
	}

	var reasons []string
	if prev.InstanceID != cur.InstanceID {
		reasons = append(reasons, fmt.Sprintf("server replaced (%s -> %s)", prev.InstanceID, cur.InstanceID))
	}
	for _, path := range prev.Fingerprints.Diff(cur.Fingerprints) {
		reasons = append(reasons, "changed: "+path)
	}
	return Decision{Fire: len(reasons) > 0, Reasons: reasons}
}

// Trigger runs the configuration pass once the target is reachable.
type Trigger struct {
	Probe  *probe.Prober // configured with the target address and dial
	Runner ansible.Runner
	Params ansible.Params

	// OnPhase, when set, is called as the trigger moves from probing to
	// configuring. Progress displays hook in here.
	OnPhase func(name string)
}

func (t *Trigger) phase(name string) {
	if t.OnPhase != nil {
		t.OnPhase(name)
	}
}

// Run verifies the inventory, probes the target, then executes the pass.
// The returned record reflects the successful run; any failure returns a
// nil record so the previous one stays in effect.
func (t *Trigger) Run(ctx context.Context, cur Inputs) (*state.ConvergeRecord, error) {
	recorded, err := inventory.RecordedAddr(t.Params.Inventory)
	if err != nil {
		return nil, err
	}
	if recorded != cur.Addr {
		return nil, fmt.Errorf("inventory %s records address %q, expected %s", t.Params.Inventory, recorded, cur.Addr)
	}

	t.phase("probe")
	result, err := t.Probe.Run(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("Server %s reachable after %d attempts (%s)", cur.Addr, result.Attempts, result.Elapsed.Round(time.Second))

	t.phase("configure")
	if err := t.Runner.Run(ctx, t.Params); err != nil {
		return nil, err
	}

	return &state.ConvergeRecord{
		InstanceID:   cur.InstanceID,
		Addr:         cur.Addr,
		Fingerprints: cur.Fingerprints,
		RunAt:        time.Now().UTC(),
	}, nil
}
