package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand_PrintsTasksAndFlows(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runList(cmd, nil))

	got := out.String()
	assert.Contains(t, got, "Tasks")
	assert.Contains(t, got, "Flows")
	assert.Contains(t, got, "read_file")
	assert.Contains(t, got, "registered from")
}
