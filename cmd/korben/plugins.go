package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	enabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"})

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"})
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Show plugin status",
	Long: `Plugins lists every discovered plugin, its declared dependencies, and
whether it was enabled. Disabled plugins show which dependencies were
missing.`,
	RunE: runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, args []string) error {
	res, err := discover()
	if err != nil {
		return err
	}

	cmd.Println(headingStyle.Render("Plugins"))
	for _, name := range res.Plugins {
		line := "  " + name
		if deps := res.Dependencies[name]; len(deps) > 0 {
			line += " (requires " + strings.Join(deps, ", ") + ")"
		}
		if missing, off := res.Disabled[name]; off {
			cmd.Println(disabledStyle.Render(line + " [disabled, missing: " + strings.Join(missing, ", ") + "]"))
		} else {
			cmd.Println(enabledStyle.Render(line))
		}
	}

	if len(res.Collisions) > 0 {
		cmd.Println()
		cmd.Println(headingStyle.Render("Collisions"))
		for _, c := range res.Collisions {
			cmd.Println(itemStyle.Render(c.Error()))
		}
	}

	if len(res.LoadErrors) > 0 {
		cmd.Println()
		cmd.Println(headingStyle.Render("Load errors"))
		for _, le := range res.LoadErrors {
			cmd.Println(itemStyle.Render(le.Error()))
		}
	}

	cmd.Println()
	cmd.Println(dimStyle.Render(res.Summary()))
	return nil
}
