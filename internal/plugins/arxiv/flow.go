package arxiv

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/plugins/email"
	"github.com/korben-sh/korben/internal/plugins/slack"
)

// digestWorkflow searches arXiv and distributes the results: an HTML digest
// by email, a short summary to Slack.
func digestWorkflow(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("arxiv")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	opts, err := optionsFrom(merged)
	if err != nil {
		return "", err
	}

	papers, err := NewClient().Search(ctx, opts)
	if err != nil {
		return "", err
	}
	if len(papers) == 0 {
		return fmt.Sprintf("No papers found for query: %s", opts.Query), nil
	}

	recipient := merged["recipient"]
	if recipient == "" {
		recipient = os.Getenv("PERSONAL_EMAIL")
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient specified, provide --param recipient=ADDR or set PERSONAL_EMAIL")
	}

	subject := fmt.Sprintf("arXiv papers - %s", opts.Query)
	if err := email.Send(ctx, recipient, subject, formatEmail(papers, opts.Query)); err != nil {
		return "", fmt.Errorf("emailing digest: %w", err)
	}

	if webhook := os.Getenv("SLACK_WEBHOOK_URL"); webhook != "" {
		if err := slack.Post(ctx, webhook, formatSlack(papers, opts.Query)); err != nil {
			return "", fmt.Errorf("posting digest to slack: %w", err)
		}
	}

	return fmt.Sprintf("Sent digest of %d papers for query %q to %s", len(papers), opts.Query, recipient), nil
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// formatEmail renders papers as a self-contained HTML digest.
func formatEmail(papers []Paper, query string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h1>arXiv Papers</h1><p>Papers found for query: <strong>%s</strong></p>", html.EscapeString(query))

	for _, p := range papers {
		abstract := truncate(p.Abstract, 600)
		authors := strings.Join(p.Authors, ", ")
		if authors == "" {
			authors = "Unknown Authors"
		}

		b.WriteString(`<div style="margin-bottom:30px;padding:20px;border-left:4px solid #b31b1b;background:#f8f9fa;">`)
		fmt.Fprintf(&b, "<div><strong>%s</strong></div>", html.EscapeString(p.Title))
		fmt.Fprintf(&b, "<div><em>%s</em></div>", html.EscapeString(authors))
		fmt.Fprintf(&b, "<div>Published: %s</div>", html.EscapeString(p.Published))
		fmt.Fprintf(&b, "<div>%s</div>", html.EscapeString(abstract))
		if p.URL != "" {
			fmt.Fprintf(&b, `<div><a href="%s">View Paper</a>`, html.EscapeString(p.URL))
			if p.PDFURL != "" {
				fmt.Fprintf(&b, ` | <a href="%s">Download PDF</a>`, html.EscapeString(p.PDFURL))
			}
			b.WriteString("</div>")
		}
		b.WriteString("</div>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

// formatSlack renders a compact digest for a Slack message.
func formatSlack(papers []Paper, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*arXiv Papers for: %s*\n\n", query)
	for i, p := range papers {
		authors := p.Authors
		suffix := ""
		if len(authors) > 3 {
			authors = authors[:3]
			suffix = " _et al._"
		}
		published := p.Published
		if len(published) > 10 {
			published = published[:10]
		}
		fmt.Fprintf(&b, "%d. <%s|%s>\n   %s%s - %s\n", i+1, p.URL, p.Title, strings.Join(authors, ", "), suffix, published)
	}
	return b.String()
}
