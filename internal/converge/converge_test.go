package converge

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/onebox-dev/onebox/internal/ansible"
	"github.com/onebox-dev/onebox/internal/fingerprint"
	"github.com/onebox-dev/onebox/internal/inventory"
	"github.com/onebox-dev/onebox/internal/probe"
	"github.com/onebox-dev/onebox/internal/state"
)

func TestDecide_FirstRun(t *testing.T) {
	t.Parallel()
	d := Decide(nil, Inputs{InstanceID: "42", Fingerprints: fingerprint.Set{"site.yml": "aa"}})

	if !d.Fire {
		t.Error("Expected first run to fire")
	}
	if len(d.Reasons) != 1 {
		t.Errorf("Expected 1 reason, got: %v", d.Reasons)
	}
}

func TestDecide_NoChange(t *testing.T) {
	t.Parallel()
	prev := &state.ConvergeRecord{
		InstanceID:   "42",
		Fingerprints: fingerprint.Set{"site.yml": "aa", "roles/app/tasks/main.yml": "bb"},
	}
	cur := Inputs{
		InstanceID:   "42",
		Fingerprints: fingerprint.Set{"site.yml": "aa", "roles/app/tasks/main.yml": "bb"},
	}

	d := Decide(prev, cur)

	if d.Fire {
		t.Errorf("Expected no fire without changes, got reasons: %v", d.Reasons)
	}
	if d.Summary() != "configuration up to date" {
		t.Errorf("Unexpected summary: %q", d.Summary())
	}
}

func TestDecide_FileChanged(t *testing.T) {
	t.Parallel()
	prev := &state.ConvergeRecord{
		InstanceID:   "42",
		Fingerprints: fingerprint.Set{"site.yml": "aa"},
	}
	cur := Inputs{
		InstanceID:   "42",
		Fingerprints: fingerprint.Set{"site.yml": "CHANGED"},
	}

	d := Decide(prev, cur)

	if !d.Fire {
		t.Fatal("Expected changed file to fire")
	}
	if len(d.Reasons) != 1 || !strings.Contains(d.Reasons[0], "site.yml") {
		t.Errorf("Expected reason naming the file, got: %v", d.Reasons)
	}
}

func TestDecide_FileAddedOrRemoved(t *testing.T) {
	t.Parallel()
	prev := &state.ConvergeRecord{
		InstanceID:   "42",
		Fingerprints: fingerprint.Set{"site.yml": "aa"},
	}

	d := Decide(prev, Inputs{InstanceID: "42", Fingerprints: fingerprint.Set{"site.yml": "aa", "new.yml": "cc"}})
	if !d.Fire {
		t.Error("Expected added file to fire")
	}

	d = Decide(prev, Inputs{InstanceID: "42", Fingerprints: fingerprint.Set{}})
	if !d.Fire {
		t.Error("Expected removed file to fire")
	}
}

func TestDecide_InstanceReplaced(t *testing.T) {
	t.Parallel()
	prev := &state.ConvergeRecord{
		InstanceID:   "42",
		Fingerprints: fingerprint.Set{"site.yml": "aa"},
	}
	cur := Inputs{InstanceID: "77", Fingerprints: fingerprint.Set{"site.yml": "aa"}}

	d := Decide(prev, cur)

	if !d.Fire {
		t.Fatal("Expected replaced instance to fire")
	}
	if !strings.Contains(d.Reasons[0], "42 -> 77") {
		t.Errorf("Expected reason naming both IDs, got: %v", d.Reasons)
	}
}

// writeInventory puts a real inventory artifact on disk so Trigger's
// address verification passes.
func writeInventory(t *testing.T, addr string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.ini")
	err := inventory.Write(path, inventory.Host{Group: "mybox", Addr: addr, User: "root"})
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeRunner records invocations in a shared call log.
type fakeRunner struct {
	calls *[]string
	err   error
}

func (r *fakeRunner) Run(_ context.Context, _ ansible.Params) error {
	*r.calls = append(*r.calls, "ansible")
	return r.err
}

func fastProbe(addr string, calls *[]string, dialErr error) *probe.Prober {
	return &probe.Prober{
		Addr:         addr,
		InitialDelay: 0,
		MaxAttempts:  2,
		Timeout:      50 * time.Millisecond,
		Delay:        time.Millisecond,
		Dial: func(_ context.Context, _ string) error {
			*calls = append(*calls, "probe")
			return dialErr
		},
	}
}

func TestTrigger_ProbeBeforeRunner(t *testing.T) {
	t.Parallel()
	var calls []string
	inv := writeInventory(t, "203.0.113.5")
	trigger := &Trigger{
		Probe:  fastProbe("203.0.113.5:22", &calls, nil),
		Runner: &fakeRunner{calls: &calls},
		Params: ansible.Params{Playbook: "site.yml", Inventory: inv},
	}
	cur := Inputs{InstanceID: "42", Addr: "203.0.113.5", Fingerprints: fingerprint.Set{"site.yml": "aa"}}

	record, err := trigger.Run(context.Background(), cur)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(calls) != 2 || calls[0] != "probe" || calls[1] != "ansible" {
		t.Errorf("Expected probe then ansible, got: %v", calls)
	}
	if record.InstanceID != "42" || record.Addr != "203.0.113.5" {
		t.Errorf("Unexpected record: %+v", record)
	}
	if !record.Fingerprints.Equal(cur.Fingerprints) {
		t.Error("Expected record to carry current fingerprints")
	}
	if record.RunAt.IsZero() {
		t.Error("Expected record timestamp to be set")
	}
}

func TestTrigger_ProbeFailureSkipsRunner(t *testing.T) {
	t.Parallel()
	var calls []string
	inv := writeInventory(t, "203.0.113.5")
	trigger := &Trigger{
		Probe:  fastProbe("203.0.113.5:22", &calls, errors.New("connection refused")),
		Runner: &fakeRunner{calls: &calls},
		Params: ansible.Params{Playbook: "site.yml", Inventory: inv},
	}

	record, err := trigger.Run(context.Background(), Inputs{InstanceID: "42", Addr: "203.0.113.5"})

	if record != nil {
		t.Errorf("Expected nil record on probe failure, got: %+v", record)
	}
	var unreachable *probe.UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("Expected UnreachableError, got: %v", err)
	}
	for _, c := range calls {
		if c == "ansible" {
			t.Error("Expected runner not to be invoked after probe failure")
		}
	}
}

func TestTrigger_RunnerFailureReturnsNoRecord(t *testing.T) {
	t.Parallel()
	var calls []string
	inv := writeInventory(t, "203.0.113.5")
	runErr := &ansible.RunError{ExitCode: 2, Output: "task failed"}
	trigger := &Trigger{
		Probe:  fastProbe("203.0.113.5:22", &calls, nil),
		Runner: &fakeRunner{calls: &calls, err: runErr},
		Params: ansible.Params{Playbook: "site.yml", Inventory: inv},
	}

	record, err := trigger.Run(context.Background(), Inputs{InstanceID: "42", Addr: "203.0.113.5"})

	if record != nil {
		t.Errorf("Expected nil record on runner failure, got: %+v", record)
	}
	var re *ansible.RunError
	if !errors.As(err, &re) || re.ExitCode != 2 {
		t.Errorf("Expected the runner's error to propagate, got: %v", err)
	}
}

func TestTrigger_InventoryAddressMismatch(t *testing.T) {
	t.Parallel()
	var calls []string
	inv := writeInventory(t, "198.51.100.9")
	trigger := &Trigger{
		Probe:  fastProbe("203.0.113.5:22", &calls, nil),
		Runner: &fakeRunner{calls: &calls},
		Params: ansible.Params{Playbook: "site.yml", Inventory: inv},
	}

	_, err := trigger.Run(context.Background(), Inputs{InstanceID: "42", Addr: "203.0.113.5"})

	if err == nil {
		t.Fatal("Expected error for stale inventory address")
	}
	if !strings.Contains(err.Error(), "198.51.100.9") || !strings.Contains(err.Error(), "203.0.113.5") {
		t.Errorf("Expected both addresses in error, got: %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("Expected neither probe nor runner to run, got: %v", calls)
	}
}
