package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSH(t *testing.T) {
	cmd := SSH()

	require.NotNil(t, cmd)
	assert.Equal(t, "ssh [command...]", cmd.Use)
	assert.Equal(t, "Open a shell on the server", cmd.Short)
}

func TestSSH_ConfigFlag(t *testing.T) {
	cmd := SSH()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag, "config flag should exist")
	assert.Equal(t, "c", flag.Shorthand)
}

func TestSSH_RunE(t *testing.T) {
	cmd := SSH()
	assert.NotNil(t, cmd.RunE, "SSH command should have RunE function")
}
