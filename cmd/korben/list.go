package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"})

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	dimStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tasks and flows",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := discover()
	if err != nil {
		return err
	}

	cmd.Println(headingStyle.Render("Tasks"))
	if tasks := res.Registry.ListTasks(); len(tasks) == 0 {
		cmd.Println(dimStyle.Render("(none)"))
	} else {
		for _, name := range tasks {
			cmd.Println(itemStyle.Render(name))
		}
	}

	cmd.Println()
	cmd.Println(headingStyle.Render("Flows"))
	if flows := res.Registry.ListFlows(); len(flows) == 0 {
		cmd.Println(dimStyle.Render("(none)"))
	} else {
		for _, name := range flows {
			cmd.Println(itemStyle.Render(name))
		}
	}

	cmd.Println()
	cmd.Println(dimStyle.Render(res.Summary()))
	return nil
}
