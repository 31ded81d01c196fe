// Package mallory fetches cybersecurity stories from the Mallory API and
// distributes digests of them.
package mallory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
	"github.com/korben-sh/korben/internal/plugins/email"
	"github.com/korben-sh/korben/internal/plugins/slack"
)

const defaultBaseURL = "https://api.mallory.ai/v1"

// Plugin returns the mallory plugin descriptor. Digests go out by email
// and Slack, so both plugins are required.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:         "mallory",
		Version:      "v1.0.0",
		Dependencies: []string{"email", "slack"},
		Tasks: func(b *plugin.Binder) error {
			b.Register("fetch_mallory_stories", fetchStories)
			return nil
		},
		Flows: func(b *plugin.Binder) error {
			b.Register("mallory_stories_workflow", storiesWorkflow)
			return nil
		},
	}
}

// Story is one entry from the Mallory stories feed.
type Story struct {
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	URL            string `json:"url"`
	ReferenceCount int    `json:"reference_count"`
}

// Client queries the Mallory API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	now        func() time.Time
}

// NewClient creates a client configured from MALLORY_API_KEY.
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Token:      os.Getenv("MALLORY_API_KEY"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// storiesPayload tolerates both envelope shapes the API has used.
type storiesPayload struct {
	Stories []Story `json:"stories"`
	Data    []Story `json:"data"`
}

// Stories fetches the most-referenced stories of the last 24 hours. When
// the updated_after window is empty it falls back to created_after.
func (c *Client) Stories(ctx context.Context, limit int) ([]Story, error) {
	if c.Token == "" {
		return nil, fmt.Errorf("no Mallory token, set MALLORY_API_KEY")
	}
	if limit <= 0 {
		limit = 20
	}

	since := c.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	stories, err := c.fetch(ctx, "updated_after", since, limit)
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		if fallback, err := c.fetch(ctx, "created_after", since, limit); err == nil {
			stories = fallback
		}
	}

	// Most discussed first.
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].ReferenceCount > stories[j].ReferenceCount
	})
	return stories, nil
}

func (c *Client) fetch(ctx context.Context, sinceKey, since string, limit int) ([]Story, error) {
	q := url.Values{}
	q.Set(sinceKey, since)
	q.Set("sort", "reference_count")
	q.Set("limit", fmt.Sprint(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/stories?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stories: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mallory returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var payload storiesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing stories: %w", err)
	}
	if len(payload.Stories) > 0 {
		return payload.Stories, nil
	}
	return payload.Data, nil
}

// fetchStories returns the latest stories as formatted markdown.
func fetchStories(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("mallory")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	limit := 0
	if v := merged["limit"]; v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
			return "", fmt.Errorf("invalid limit %q", v)
		}
	}

	stories, err := NewClient().Stories(ctx, limit)
	if err != nil {
		return "", err
	}
	return formatMarkdown(stories), nil
}

// storiesWorkflow fetches stories and distributes the digest.
func storiesWorkflow(ctx context.Context, params map[string]string) (string, error) {
	digest, err := fetchStories(ctx, params)
	if err != nil {
		return "", err
	}

	recipient := params["recipient"]
	if recipient == "" {
		recipient = os.Getenv("PERSONAL_EMAIL")
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient specified, provide --param recipient=ADDR or set PERSONAL_EMAIL")
	}

	subject := "Mallory security stories - " + time.Now().Format("2006-01-02")
	if err := email.Send(ctx, recipient, subject, "<pre>"+digest+"</pre>"); err != nil {
		return "", fmt.Errorf("emailing digest: %w", err)
	}

	if webhook := os.Getenv("SLACK_WEBHOOK_URL"); webhook != "" {
		if err := slack.Post(ctx, webhook, digest); err != nil {
			return "", fmt.Errorf("posting digest to slack: %w", err)
		}
	}
	return fmt.Sprintf("Sent security digest to %s", recipient), nil
}

// formatMarkdown renders stories as a markdown digest.
func formatMarkdown(stories []Story) string {
	if len(stories) == 0 {
		return "No new stories in the last 24 hours."
	}

	var b strings.Builder
	b.WriteString("# Security Stories\n\n")
	for i, s := range stories {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)
		if s.Summary != "" {
			b.WriteString(s.Summary + "\n\n")
		}
		if s.URL != "" {
			fmt.Fprintf(&b, "[Read more](%s) - %d references\n\n", s.URL, s.ReferenceCount)
		}
	}
	return b.String()
}
