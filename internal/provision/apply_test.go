package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/onebox-dev/onebox/internal/inventory"
	hcloud_internal "github.com/onebox-dev/onebox/internal/platform/hcloud"
	"github.com/onebox-dev/onebox/internal/state"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_FreshStack(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := state.New()
	var calls []string
	p := New(recordingMock(&calls), silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ensure-ssh-key",
		"ensure-firewall",
		"ensure-volume",
		"create-server",
		"wait-server-ip",
		"attach-volume",
	}, calls)

	require.NotNil(t, rec.SSHKey)
	require.NotNil(t, rec.Firewall)
	require.NotNil(t, rec.Volume)
	require.NotNil(t, rec.Server)
	require.NotNil(t, rec.Inventory)
	assert.Equal(t, hcloud_internal.MockServerIP, rec.Server.Addr)
	assert.Equal(t, rec.Server.Addr, rec.Inventory.Addr)
	assert.True(t, strings.HasPrefix(rec.Server.Name, "web-"))

	addr, err := inventory.RecordedAddr(spec.Inventory.Path)
	require.NoError(t, err)
	assert.Equal(t, hcloud_internal.MockServerIP, addr)
}

func TestApply_ThenPlanIsEmpty(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := state.New()
	var calls []string
	p := New(recordingMock(&calls), silent)

	require.NoError(t, p.Apply(context.Background(), spec, rec))

	plan, err := p.Plan(context.Background(), spec, rec)
	require.NoError(t, err)
	assert.True(t, plan.Empty(), "second plan not empty: %v", plan.Changes)
}

func TestApply_ReplacementDeletesOldServerLast(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := appliedRecord(spec)
	writeCurrentInventory(t, spec, rec)
	oldName := rec.Server.Name
	spec.Server.ServerType = "cx32"

	var calls []string
	m := recordingMock(&calls)
	m.DeleteServerFunc = func(_ context.Context, name string) error {
		calls = append(calls, "delete-server "+name)
		// At deletion time the inventory must already point at the
		// replacement server.
		addr, err := inventory.RecordedAddr(spec.Inventory.Path)
		if err != nil {
			return err
		}
		if addr != hcloud_internal.MockServerIP {
			return fmt.Errorf("inventory still points at %s", addr)
		}
		return nil
	}
	p := New(m, silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create-server",
		"wait-server-ip",
		"detach-volume",
		"attach-volume",
		"delete-server " + oldName,
	}, calls)

	assert.NotEqual(t, oldName, rec.Server.Name)
	assert.Equal(t, "cx32", rec.Server.ServerType)
	assert.Equal(t, hcloud_internal.MockServerIP, rec.Server.Addr)
	assert.Equal(t, hcloud_internal.MockServerIP, rec.Inventory.Addr)
}

func TestApply_ErrorNamesFailingResource(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := state.New()
	var calls []string
	m := recordingMock(&calls)
	m.CreateServerFunc = func(_ context.Context, _ hcloud_internal.ServerCreateOpts) (*hcloud.Server, error) {
		return nil, errors.New("placement group full")
	}
	p := New(m, silent)

	err := p.Apply(context.Background(), spec, rec)
	require.Error(t, err)

	var resErr *ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, ResourceServer, resErr.Resource)
	assert.Equal(t, "create", resErr.Op)
	assert.Contains(t, err.Error(), "placement group full")

	// Everything that completed before the failure stays recorded.
	assert.NotNil(t, rec.SSHKey)
	assert.NotNil(t, rec.Firewall)
	assert.NotNil(t, rec.Volume)
	assert.Nil(t, rec.Server)
}

func TestApply_NothingToDo(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := appliedRecord(spec)
	writeCurrentInventory(t, spec, rec)
	var calls []string
	p := New(recordingMock(&calls), silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestApply_VolumeRemoval(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := appliedRecord(spec)
	writeCurrentInventory(t, spec, rec)
	spec.Volume = nil

	var calls []string
	p := New(recordingMock(&calls), silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"detach-volume", "delete-volume"}, calls)
	assert.Nil(t, rec.Volume)
	assert.NotNil(t, rec.Server, "server must survive volume removal")
}

func TestApply_VolumeGrow(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := appliedRecord(spec)
	writeCurrentInventory(t, spec, rec)
	spec.Volume.SizeGB = 50

	var calls []string
	p := New(recordingMock(&calls), silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"resize-volume"}, calls)
	assert.Equal(t, 50, rec.Volume.SizeGB)
}

func TestApply_VolumeFormatReplacement(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := appliedRecord(spec)
	writeCurrentInventory(t, spec, rec)
	spec.Volume.Format = "xfs"

	var calls []string
	p := New(recordingMock(&calls), silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"detach-volume",
		"delete-volume",
		"ensure-volume",
		"attach-volume",
	}, calls)
	assert.Equal(t, "xfs", rec.Volume.Format)
	assert.NotNil(t, rec.Server, "server must survive volume replacement")
}

func TestApply_KeyRotationReplacesKeyAndServer(t *testing.T) {
	t.Parallel()
	spec := testSpec(t)
	rec := appliedRecord(spec)
	writeCurrentInventory(t, spec, rec)
	oldName := rec.Server.Name
	spec.SSHKey.Fingerprint = "ee:ff:00:11"

	var calls []string
	p := New(recordingMock(&calls), silent)

	err := p.Apply(context.Background(), spec, rec)
	require.NoError(t, err)

	// The new key is uploaded before the replacement server boots, so
	// the server comes up reachable with the rotated key.
	assert.Equal(t, []string{
		"delete-ssh-key",
		"ensure-ssh-key",
		"create-server",
		"wait-server-ip",
		"detach-volume",
		"attach-volume",
		"delete-server",
	}, calls)
	assert.Equal(t, "ee:ff:00:11", rec.SSHKey.Fingerprint)
	assert.NotEqual(t, oldName, rec.Server.Name)
}
