package linear

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
)

const defaultStatuses = "In Progress,Todo"

// Plugin returns the linear plugin descriptor. The status report flow
// distributes through email and slack, so both are required.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:         "linear",
		Version:      "v1.0.0",
		Dependencies: []string{"email", "slack"},
		Tasks: func(b *plugin.Binder) error {
			b.Register("get_linear_tickets", getTickets)
			b.Register("list_linear_states", listStates)
			return nil
		},
		Flows: func(b *plugin.Binder) error {
			b.Register("linear_status_report_workflow", statusReportWorkflow)
			return nil
		},
	}
}

// ticket is the flattened issue shape exposed to callers.
type ticket struct {
	Identifier  string   `json:"identifier"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	URL         string   `json:"url"`
	Priority    int      `json:"priority"`
	Labels      []string `json:"labels"`
	Team        string   `json:"team,omitempty"`
	Project     string   `json:"project,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
}

func flatten(issues []Issue) []ticket {
	tickets := make([]ticket, 0, len(issues))
	for _, i := range issues {
		tickets = append(tickets, ticket{
			Identifier:  i.Identifier,
			Name:        i.Title,
			Description: i.Description,
			Status:      i.State.Name,
			URL:         i.URL,
			Priority:    i.Priority,
			Labels:      i.LabelNames(),
			Team:        i.Team.Name,
			Project:     i.Project.Name,
			DueDate:     i.DueDate,
		})
	}
	return tickets
}

// fetchTickets resolves the user and requested statuses, then fetches
// the matching issues.
func fetchTickets(ctx context.Context, merged map[string]string) ([]ticket, error) {
	client := NewClient(merged["api_key"])

	username := merged["username"]
	if username == "" {
		return nil, fmt.Errorf("no username specified, provide --param username=NAME or set it in the plugin config")
	}

	statusesRaw := merged["statuses"]
	if statusesRaw == "" {
		statusesRaw = defaultStatuses
	}
	var requested []string
	for _, s := range strings.Split(statusesRaw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			requested = append(requested, s)
		}
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("no valid statuses in %q", statusesRaw)
	}

	user, err := client.UserByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q not found", username)
	}

	states, err := client.WorkflowStates(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[name] = true
	}
	var stateIDs []string
	for _, s := range states {
		if wanted[s.Name] {
			stateIDs = append(stateIDs, s.ID)
		}
	}
	if len(stateIDs) == 0 {
		available := make(map[string]struct{})
		for _, s := range states {
			available[s.Name] = struct{}{}
		}
		names := make([]string, 0, len(available))
		for name := range available {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("no workflow states match %q (available: %s)",
			strings.Join(requested, ", "), strings.Join(names, ", "))
	}

	issues, err := client.IssuesByAssigneeAndStates(ctx, user.ID, stateIDs)
	if err != nil {
		return nil, err
	}
	return flatten(issues), nil
}

// getTickets returns the user's open tickets as JSON.
func getTickets(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("linear")
	if err != nil {
		return "", err
	}

	tickets, err := fetchTickets(ctx, cfg.Merge(params))
	if err != nil {
		return "", err
	}
	if len(tickets) == 0 {
		return "No issues found matching criteria", nil
	}

	out, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding tickets: %w", err)
	}
	return string(out), nil
}

// listStates returns every workflow state grouped by team.
func listStates(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("linear")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	states, err := NewClient(merged["api_key"]).WorkflowStates(ctx)
	if err != nil {
		return "", err
	}

	byTeam := make(map[string]map[string]struct{})
	for _, s := range states {
		team := s.Team.Name
		if team == "" {
			team = "No Team"
		}
		if byTeam[team] == nil {
			byTeam[team] = make(map[string]struct{})
		}
		byTeam[team][s.Name] = struct{}{}
	}

	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var b strings.Builder
	for _, team := range teams {
		fmt.Fprintf(&b, "%s:\n", team)
		names := make([]string, 0, len(byTeam[team]))
		for name := range byTeam[team] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	fmt.Fprintf(&b, "%d workflow states across %d team(s)\n", len(states), len(teams))
	return b.String(), nil
}
