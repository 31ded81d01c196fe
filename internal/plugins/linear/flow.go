package linear

import (
	"context"
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/plugins/email"
	"github.com/korben-sh/korben/internal/plugins/slack"
)

// statusOrder pins the report's section ordering; anything else sorts
// alphabetically after these.
var statusOrder = []string{"In Progress", "Todo", "In Review", "Blocked"}

// statusReportWorkflow fetches the user's tickets and distributes a status
// report: an HTML digest by email, a plain-text summary to Slack.
func statusReportWorkflow(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("linear")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	tickets, err := fetchTickets(ctx, merged)
	if err != nil {
		return "", err
	}
	if len(tickets) == 0 {
		return "No tickets found.", nil
	}

	recipient := merged["recipient"]
	if recipient == "" {
		recipient = os.Getenv("PERSONAL_EMAIL")
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient specified, provide --param recipient=ADDR or set PERSONAL_EMAIL")
	}

	if err := email.Send(ctx, recipient, "Linear Ticket Status Report", formatEmail(tickets)); err != nil {
		return "", fmt.Errorf("emailing report: %w", err)
	}

	if webhook := os.Getenv("SLACK_WEBHOOK_URL"); webhook != "" {
		if err := slack.Post(ctx, webhook, formatText(tickets)); err != nil {
			return "", fmt.Errorf("posting report to slack: %w", err)
		}
	}

	return fmt.Sprintf("Sent report of %d ticket(s) to %s", len(tickets), recipient), nil
}

// groupByStatus buckets tickets and returns the section order: pinned
// statuses first, the rest alphabetically. Within a section, tickets sort
// by priority with unprioritized last.
func groupByStatus(tickets []ticket) ([]string, map[string][]ticket) {
	byStatus := make(map[string][]ticket)
	for _, t := range tickets {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	rank := make(map[string]int, len(statusOrder))
	for i, s := range statusOrder {
		rank[s] = i
	}
	statuses := make([]string, 0, len(byStatus))
	for s := range byStatus {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		ri, iok := rank[statuses[i]]
		rj, jok := rank[statuses[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return statuses[i] < statuses[j]
		}
	})

	for _, s := range statuses {
		group := byStatus[s]
		sort.SliceStable(group, func(i, j int) bool {
			return priorityRank(group[i].Priority) < priorityRank(group[j].Priority)
		})
	}
	return statuses, byStatus
}

// priorityRank orders Linear priorities: 1 (urgent) first, 0 (none) last.
func priorityRank(p int) int {
	if p == 0 {
		return 999
	}
	return p
}

func priorityLabel(p int) string {
	if p == 0 {
		return "P?"
	}
	return fmt.Sprintf("P%d", p)
}

// formatEmail renders the tickets as an HTML report.
func formatEmail(tickets []ticket) string {
	statuses, byStatus := groupByStatus(tickets)

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h1>Linear Ticket Report</h1><p><strong>%d Total Tickets</strong></p>", len(tickets))

	for _, status := range statuses {
		group := byStatus[status]
		fmt.Fprintf(&b, "<h2>%s (%d)</h2><ul>", html.EscapeString(status), len(group))
		for _, t := range group {
			b.WriteString("<li>")
			if t.URL != "" {
				fmt.Fprintf(&b, `<strong><a href="%s">%s</a></strong>`, html.EscapeString(t.URL), html.EscapeString(t.Identifier))
			} else {
				fmt.Fprintf(&b, "<strong>%s</strong>", html.EscapeString(t.Identifier))
			}
			fmt.Fprintf(&b, " - %s - %s", priorityLabel(t.Priority), html.EscapeString(t.Name))
			if len(t.Labels) > 0 {
				fmt.Fprintf(&b, " <code>%s</code>", html.EscapeString(strings.Join(t.Labels, ", ")))
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

// formatText renders the tickets as a plain-text report for Slack.
func formatText(tickets []ticket) string {
	statuses, byStatus := groupByStatus(tickets)

	var b strings.Builder
	fmt.Fprintf(&b, "*Linear Ticket Report - %d Total Tickets*\n", len(tickets))
	for _, status := range statuses {
		group := byStatus[status]
		fmt.Fprintf(&b, "\n%s (%d)\n", strings.ToUpper(status), len(group))
		for _, t := range group {
			fmt.Fprintf(&b, "  %s - %s - %s", t.Identifier, priorityLabel(t.Priority), t.Name)
			if len(t.Labels) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(t.Labels, ", "))
			}
			b.WriteString("\n")
			if t.URL != "" {
				fmt.Fprintf(&b, "    %s\n", t.URL)
			}
		}
	}
	return b.String()
}
