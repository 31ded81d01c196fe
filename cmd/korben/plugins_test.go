package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginsCommand_PrintsStatus(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runPlugins(cmd, nil))

	got := out.String()
	assert.Contains(t, got, "Plugins")
	assert.Contains(t, got, "utilities")
	assert.Contains(t, got, "share_file (requires aws_s3)")
}
