package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	cmd := Apply()

	require.NotNil(t, cmd)
	assert.Equal(t, "apply", cmd.Use)
	assert.Equal(t, "Create or update the stack", cmd.Short)
}

func TestApply_ConfigFlag(t *testing.T) {
	cmd := Apply()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag, "config flag should exist")
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "", flag.DefValue)
}

func TestApply_AutoApproveFlag(t *testing.T) {
	cmd := Apply()

	flag := cmd.Flags().Lookup("auto-approve")
	require.NotNil(t, flag, "auto-approve flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestApply_RunE(t *testing.T) {
	cmd := Apply()
	assert.NotNil(t, cmd.RunE, "Apply command should have RunE function")
}
