package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onebox-dev/onebox/internal/config"
)

func TestLogs_TailsApplicationLogs(t *testing.T) {
	applied(t)

	remote := &fakeRemote{}
	newSSHClient = func(_ *config.Config, addr string) (remoteRunner, error) {
		assert.Equal(t, "192.0.2.10", addr)
		return remote, nil
	}

	require.NoError(t, Logs(context.Background(), "", false, 200))

	require.Len(t, remote.commands, 1)
	assert.Equal(t, "cd /opt/app && docker compose logs --tail 200", remote.commands[0])
}

func TestLogs_FollowAppendsFlag(t *testing.T) {
	applied(t)

	remote := &fakeRemote{}
	newSSHClient = func(_ *config.Config, _ string) (remoteRunner, error) { return remote, nil }

	require.NoError(t, Logs(context.Background(), "", true, 50))

	require.Len(t, remote.commands, 1)
	assert.Equal(t, "cd /opt/app && docker compose logs --tail 50 --follow", remote.commands[0])
}

func TestLogs_NoServerRecorded(t *testing.T) {
	setup(t)
	newSSHClient = func(_ *config.Config, _ string) (remoteRunner, error) {
		t.Error("ssh client opened without a server")
		return nil, nil
	}

	err := Logs(context.Background(), "", false, 200)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no server recorded")
}
