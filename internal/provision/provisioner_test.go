package provision

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/onebox-dev/onebox/internal/inventory"
	hcloud_internal "github.com/onebox-dev/onebox/internal/platform/hcloud"
	"github.com/onebox-dev/onebox/internal/state"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/require"
)

// silent swallows observer output during tests.
var silent = ObserverFunc(func(string, ...any) {})

func testSpec(t *testing.T) *Spec {
	t.Helper()
	rules := buildFirewallRules(testFirewallConfig(), 22)
	return &Spec{
		Stack:    "web",
		Location: "nbg1",
		SSHKey: SSHKeySpec{
			Name:        "web-ssh",
			PublicKey:   "ssh-rsa AAAAB3Nza test",
			Fingerprint: "aa:bb:cc:dd",
		},
		Firewall: FirewallSpec{
			Name:   "web",
			Rules:  rules,
			Digest: RulesDigest(rules),
		},
		Volume: &VolumeSpec{Name: "web-data", SizeGB: 10, Format: "ext4"},
		Server: ServerSpec{
			ServerType:     "cx22",
			Image:          "debian-12",
			UserData:       "#cloud-config\n",
			UserDataDigest: userDataDigest("#cloud-config\n"),
		},
		Inventory: InventorySpec{
			Path:    filepath.Join(t.TempDir(), "inventory.ini"),
			User:    "root",
			KeyPath: ".onebox/id_rsa",
		},
	}
}

// appliedRecord builds the record a successful apply of spec would have
// left behind, with the server at 192.0.2.50.
func appliedRecord(spec *Spec) *state.Record {
	rec := state.New()
	rec.SSHKey = &state.SSHKeyRecord{ID: 7, Name: spec.SSHKey.Name, Fingerprint: spec.SSHKey.Fingerprint}
	rec.Firewall = &state.FirewallRecord{ID: 11, Name: spec.Firewall.Name, RulesDigest: spec.Firewall.Digest}
	if spec.Volume != nil {
		rec.Volume = &state.VolumeRecord{ID: 23, Name: spec.Volume.Name, SizeGB: spec.Volume.SizeGB, Format: spec.Volume.Format}
	}
	rec.Server = &state.ServerRecord{
		ID:             42,
		Name:           spec.Stack + "-abc123",
		Addr:           "192.0.2.50",
		ServerType:     spec.Server.ServerType,
		Image:          spec.Server.Image,
		Location:       spec.Location,
		UserDataDigest: spec.Server.UserDataDigest,
	}
	rec.Inventory = &state.InventoryRecord{Path: spec.Inventory.Path, Addr: "192.0.2.50", User: spec.Inventory.User}
	return rec
}

// writeCurrentInventory puts the inventory file in sync with the record.
func writeCurrentInventory(t *testing.T, spec *Spec, rec *state.Record) {
	t.Helper()
	err := inventory.Write(spec.Inventory.Path, inventory.Host{
		Group:   spec.Stack,
		Addr:    rec.Server.Addr,
		User:    spec.Inventory.User,
		KeyPath: spec.Inventory.KeyPath,
	})
	require.NoError(t, err)
}

// liveMock answers lookups as if every recorded resource still exists.
func liveMock() *hcloud_internal.MockClient {
	return &hcloud_internal.MockClient{
		GetSSHKeyFunc: func(_ context.Context, name string) (*hcloud.SSHKey, error) {
			return &hcloud.SSHKey{ID: 7, Name: name}, nil
		},
		GetFirewallFunc: func(_ context.Context, name string) (*hcloud.Firewall, error) {
			return &hcloud.Firewall{ID: 11, Name: name}, nil
		},
		GetVolumeFunc: func(_ context.Context, name string) (*hcloud.Volume, error) {
			return &hcloud.Volume{ID: 23, Name: name, Size: 10}, nil
		},
		GetServerFunc: func(_ context.Context, name string) (*hcloud.Server, error) {
			return &hcloud.Server{ID: 42, Name: name}, nil
		},
	}
}

// recordingMock is a liveMock whose mutating calls append to calls.
func recordingMock(calls *[]string) *hcloud_internal.MockClient {
	m := liveMock()
	m.EnsureSSHKeyFunc = func(_ context.Context, name, _ string, _ map[string]string) (*hcloud.SSHKey, error) {
		*calls = append(*calls, "ensure-ssh-key")
		return &hcloud.SSHKey{ID: 7, Name: name}, nil
	}
	m.DeleteSSHKeyFunc = func(_ context.Context, _ string) error {
		*calls = append(*calls, "delete-ssh-key")
		return nil
	}
	m.EnsureFirewallFunc = func(_ context.Context, name string, _ []hcloud.FirewallRule, _ map[string]string, _ string) (*hcloud.Firewall, error) {
		*calls = append(*calls, "ensure-firewall")
		return &hcloud.Firewall{ID: 11, Name: name}, nil
	}
	m.DeleteFirewallFunc = func(_ context.Context, _ string) error {
		*calls = append(*calls, "delete-firewall")
		return nil
	}
	m.EnsureVolumeFunc = func(_ context.Context, opts hcloud_internal.VolumeCreateOpts) (*hcloud.Volume, error) {
		*calls = append(*calls, "ensure-volume")
		return &hcloud.Volume{ID: 23, Name: opts.Name, Size: opts.SizeGB}, nil
	}
	m.ResizeVolumeFunc = func(_ context.Context, _ string, _ int) error {
		*calls = append(*calls, "resize-volume")
		return nil
	}
	m.AttachVolumeFunc = func(_ context.Context, _, _ string) error {
		*calls = append(*calls, "attach-volume")
		return nil
	}
	m.DetachVolumeFunc = func(_ context.Context, _ string) error {
		*calls = append(*calls, "detach-volume")
		return nil
	}
	m.DeleteVolumeFunc = func(_ context.Context, _ string) error {
		*calls = append(*calls, "delete-volume")
		return nil
	}
	m.CreateServerFunc = func(_ context.Context, opts hcloud_internal.ServerCreateOpts) (*hcloud.Server, error) {
		*calls = append(*calls, "create-server")
		return &hcloud.Server{ID: 43, Name: opts.Name}, nil
	}
	m.WaitForServerIPFunc = func(_ context.Context, _ string) (string, error) {
		*calls = append(*calls, "wait-server-ip")
		return hcloud_internal.MockServerIP, nil
	}
	m.DeleteServerFunc = func(_ context.Context, _ string) error {
		*calls = append(*calls, "delete-server")
		return nil
	}
	return m
}
