package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["seed"])
}

func TestSeedFlags(t *testing.T) {
	f := seedCmd.Flags().Lookup("file")
	require.NotNil(t, f)
	assert.Equal(t, "f", f.Shorthand)
	assert.Contains(t, f.Annotations, "cobra_annotation_bash_completion_one_required_flag")

	ow := seedCmd.Flags().Lookup("overwrite")
	require.NotNil(t, ow)
	assert.Equal(t, "false", ow.DefValue)
}

func TestServeLeavesFlagsToWaffle(t *testing.T) {
	assert.True(t, serveCmd.DisableFlagParsing)
}
