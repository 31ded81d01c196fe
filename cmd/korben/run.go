package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/korben-sh/korben/internal/domain/plugin"
)

var (
	runTask   string
	runFlow   string
	runParams []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a registered task or flow",
	Long: `Run executes a single registered task or flow by name.

Parameters are passed as repeated --param key=value flags and become the
parameter map of the callable.

Examples:
  korben run --task read_file --param path=notes.txt
  korben run --flow arxiv_digest --param query="quantum error correction"`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTask, "task", "", "name of the task to run")
	runCmd.Flags().StringVar(&runFlow, "flow", "", "name of the flow to run")
	runCmd.Flags().StringArrayVar(&runParams, "param", nil, "parameter as key=value (repeatable)")
	runCmd.MarkFlagsMutuallyExclusive("task", "flow")
	runCmd.MarkFlagsOneRequired("task", "flow")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	params, err := parseParams(runParams)
	if err != nil {
		return err
	}

	res, err := discover()
	if err != nil {
		return err
	}

	name := runTask
	kind := "task"
	lookup := res.Registry.LookupTask
	available := res.Registry.ListTasks
	if runFlow != "" {
		name = runFlow
		kind = "flow"
		lookup = res.Registry.LookupFlow
		available = res.Registry.ListFlows
	}

	fn, ok := lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s %q (available: %s)", plugin.ErrNotFound, kind, name, strings.Join(available(), ", "))
	}

	runID := uuid.New().String()
	cmd.Printf("Running %s: %s (run %s)\n", kind, name, runID)

	out, err := fn(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("%s %q failed: %w", kind, name, err)
	}
	if out != "" {
		cmd.Println(out)
	}
	return nil
}

// parseParams turns repeated key=value flags into a parameter map.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
