package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korben-sh/korben/internal/domain/plugin"
)

func TestParseParams(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		params, err := parseParams(nil)
		require.NoError(t, err)
		assert.Empty(t, params)
	})

	t.Run("key value pairs", func(t *testing.T) {
		params, err := parseParams([]string{"path=notes.txt", "query=a=b"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"path":  "notes.txt",
			"query": "a=b", // only the first = splits
		}, params)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := parseParams([]string{"noequals"})
		assert.ErrorContains(t, err, "expected key=value")
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := parseParams([]string{"=value"})
		assert.ErrorContains(t, err, "expected key=value")
	})
}

func TestRunCommand_Flags(t *testing.T) {
	require.NotNil(t, runCmd.Flags().Lookup("task"))
	require.NotNil(t, runCmd.Flags().Lookup("flow"))
	require.NotNil(t, runCmd.Flags().Lookup("param"))
}

func TestRunCommand_UnknownTask(t *testing.T) {
	runTask = "no_such_task"
	runFlow = ""
	runParams = nil
	t.Cleanup(func() { runTask = "" })

	err := runRun(runCmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrNotFound)
	assert.ErrorContains(t, err, `task "no_such_task"`)
	assert.ErrorContains(t, err, "available:")
}
