package books

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/plugins/email"
)

// Plugin returns the books plugin descriptor. The digest flow emails its
// results, so the email plugin is required.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:         "books",
		Version:      "v1.0.0",
		Dependencies: []string{"email"},
		Tasks: func(b *plugin.Binder) error {
			b.Register("search_books", searchBooks)
			return nil
		},
		Flows: func(b *plugin.Binder) error {
			b.Register("books_digest_workflow", digestWorkflow)
			return nil
		},
	}
}

// runSearch dispatches to the right search method based on which parameter
// was given: subject, author, or general query.
func runSearch(ctx context.Context, merged map[string]string) ([]Book, string, error) {
	query := merged["query"]
	subject := merged["subject"]
	author := merged["author"]
	if query == "" && subject == "" && author == "" {
		return nil, "", fmt.Errorf("provide at least one of --param query=, subject=, or author=")
	}

	page, pageSize := 1, 20
	if v := merged["page"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page %q: %w", v, err)
		}
		page = n
	}
	if v := merged["limit"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, "", fmt.Errorf("invalid limit %q: %w", v, err)
		}
		pageSize = n
	}

	c := NewClient()
	switch {
	case subject != "":
		books, err := c.SearchBySubject(ctx, subject, page, pageSize)
		return books, subject, err
	case author != "":
		books, err := c.SearchByAuthor(ctx, author, page, pageSize)
		return books, author, err
	default:
		books, err := c.SearchBooks(ctx, query, page, pageSize)
		return books, query, err
	}
}

// searchBooks returns matching books as JSON.
func searchBooks(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("books")
	if err != nil {
		return "", err
	}

	books, term, err := runSearch(ctx, cfg.Merge(params))
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(map[string]any{
		"query": term,
		"total": len(books),
		"books": books,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding results: %w", err)
	}
	return string(out), nil
}

// digestWorkflow searches for books and emails the results.
func digestWorkflow(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("books")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	books, term, err := runSearch(ctx, merged)
	if err != nil {
		return "", err
	}
	if len(books) == 0 {
		return fmt.Sprintf("No books found for %q", term), nil
	}

	recipient := merged["recipient"]
	if recipient == "" {
		recipient = os.Getenv("PERSONAL_EMAIL")
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient specified, provide --param recipient=ADDR or set PERSONAL_EMAIL")
	}

	subject := fmt.Sprintf("Book finds - %s", term)
	if err := email.Send(ctx, recipient, subject, formatEmail(books, term)); err != nil {
		return "", fmt.Errorf("emailing digest: %w", err)
	}
	return fmt.Sprintf("Sent %d books for %q to %s", len(books), term, recipient), nil
}

// formatEmail renders books as an HTML digest.
func formatEmail(books []Book, term string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h1>Books</h1><p>Results for: <strong>%s</strong></p>", html.EscapeString(term))
	for _, book := range books {
		b.WriteString("<div style=\"margin-bottom:20px;\">")
		fmt.Fprintf(&b, "<div><strong>%s</strong></div>", html.EscapeString(book.Title))
		if len(book.Authors) > 0 {
			fmt.Fprintf(&b, "<div><em>%s</em></div>", html.EscapeString(strings.Join(book.Authors, ", ")))
		}
		if book.Publisher != "" || book.Date != "" {
			fmt.Fprintf(&b, "<div>%s %s</div>", html.EscapeString(book.Publisher), html.EscapeString(book.Date))
		}
		if book.Synopsis != "" {
			fmt.Fprintf(&b, "<div>%s</div>", html.EscapeString(book.Synopsis))
		}
		b.WriteString("</div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
